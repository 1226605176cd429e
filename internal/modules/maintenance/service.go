package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smap/internal/domain"
	"smap/internal/pkg/metrics"
	"smap/internal/pkg/register"
	"smap/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	tickets TicketRepository
	users   UserRepository
	inval   SummaryInvalidator
}

func NewService(tickets TicketRepository, users UserRepository, inval SummaryInvalidator) *Service {
	return &Service{tickets: tickets, users: users, inval: inval}
}

// Open files a maintenance ticket over the requested items, moving each from
// available to in_maintenance as one atomic unit. Every line needs a symptom;
// no condition snapshot is taken at open time.
func (s *Service) Open(ctx context.Context, req OpenTicketRequest, username string) (*TicketView, error) {
	if len(req.Lines) == 0 || strings.TrimSpace(req.Subject) == "" {
		return nil, ErrValidation
	}
	lines := make([]repository.TicketOpenLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if strings.TrimSpace(l.Symptom) == "" {
			return nil, ErrValidation
		}
		lines = append(lines, repository.TicketOpenLine{ItemID: l.ItemID, Symptom: l.Symptom})
	}

	requester, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	t := &domain.Ticket{
		RegisterNumber:        register.Number(register.MaintenancePrefix),
		Subject:               req.Subject,
		RequesterID:           requester.ID,
		Notes:                 req.Notes,
		OpenedDate:            time.Now(),
		PlannedCompletionDate: req.PlannedCompletionDate,
		Status:                domain.TicketOpen,
	}

	if err := s.tickets.Open(ctx, t, lines); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemUnavailable):
			metrics.TicketsOpened.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, ErrItemUnavailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrItemNotFound
		default:
			metrics.TicketsOpened.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, err
		}
	}

	metrics.TicketsOpened.WithLabelValues(metrics.OutcomeOK).Inc()
	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}

	return s.toView(ctx, t), nil
}

// Close completes a ticket. Only lines whose item appears in the resolution
// map are resolved and returned to available; the rest stay in_maintenance.
// Closing an already-closed ticket is an idempotent no-op.
func (s *Service) Close(ctx context.Context, ticketID int64, req CloseTicketRequest, username string) (*TicketView, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.Status == domain.TicketClosed {
		return s.toView(ctx, current), nil
	}

	for itemID, r := range req.Resolutions {
		if !r.Condition.Valid() {
			return nil, fmt.Errorf("item %d: unknown condition %q: %w", itemID, r.Condition, ErrValidation)
		}
	}

	responsible, err := s.resolveResponsible(ctx, req.Responsible, username)
	if err != nil {
		return nil, err
	}

	resolutions := make(map[int64]repository.TicketResolution, len(req.Resolutions))
	for itemID, r := range req.Resolutions {
		resolutions[itemID] = repository.TicketResolution{
			RepairNotes:   r.RepairNotes,
			WarrantyUntil: r.WarrantyUntil,
			Condition:     r.Condition,
		}
	}

	closed, err := s.tickets.Close(ctx, repository.CloseTicketParams{
		TicketID:     ticketID,
		Responsible:  responsible,
		ClosingNotes: req.Notes,
		Resolutions:  resolutions,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		metrics.TicketsClosed.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.TicketsClosed.WithLabelValues(metrics.OutcomeOK).Inc()
	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}

	return s.toView(ctx, closed), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*TicketView, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toView(ctx, t), nil
}

func (s *Service) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]TicketView, int64, error) {
	tickets, total, err := s.tickets.List(ctx, page, size, sortBy, sortDir)
	if err != nil {
		return nil, 0, err
	}

	out := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		out = append(out, *s.toView(ctx, &tickets[i]))
	}
	return out, total, nil
}

func (s *Service) resolveResponsible(ctx context.Context, adhoc *AdHocResponsible, username string) (domain.ResponsibleParty, error) {
	if adhoc != nil {
		return domain.ResponsibleParty{
			Kind:       domain.ResponsibleAdHoc,
			Name:       adhoc.Name,
			ExternalID: adhoc.ExternalID,
			Title:      adhoc.Title,
		}, nil
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ResponsibleParty{}, ErrUserNotFound
		}
		return domain.ResponsibleParty{}, err
	}
	return domain.ResponsibleParty{
		Kind:   domain.ResponsibleRegistered,
		UserID: &u.ID,
	}, nil
}

func (s *Service) toView(ctx context.Context, t *domain.Ticket) *TicketView {
	v := &TicketView{
		ID:                    t.ID,
		RegisterNumber:        t.RegisterNumber,
		Subject:               t.Subject,
		RequesterID:           t.RequesterID,
		Notes:                 t.Notes,
		OpenedDate:            t.OpenedDate,
		PlannedCompletionDate: t.PlannedCompletionDate,
		ActualCompletionDate:  t.ActualCompletionDate,
		Status:                t.Status,
		Lines:                 t.Lines,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}

	if u, err := s.users.GetByID(ctx, t.RequesterID); err == nil {
		v.RequesterName = u.Name
	}
	if rp := t.Responsible; rp != nil {
		switch rp.Kind {
		case domain.ResponsibleRegistered:
			if rp.UserID != nil {
				if u, err := s.users.GetByID(ctx, *rp.UserID); err == nil {
					v.ResponsibleName = u.Name
				}
			}
		case domain.ResponsibleAdHoc:
			v.ResponsibleName = rp.Name
			if rp.Title != "" {
				v.ResponsibleName = rp.Name + " (" + rp.Title + ")"
			}
		}
	}
	return v
}
