package loan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"smap/internal/domain"
	"smap/internal/pkg/metrics"
	"smap/internal/pkg/register"
	"smap/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	loans LoanRepository
	users UserRepository
	files FileStore
	inval SummaryInvalidator
}

func NewService(loans LoanRepository, users UserRepository, files FileStore, inval SummaryInvalidator) *Service {
	return &Service{loans: loans, users: users, files: files, inval: inval}
}

// Evidence is an uploaded handover document attached to a close request.
type Evidence struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Open creates a loan over the requested items. All items are validated and
// flipped to on_loan as one atomic unit; if any item is missing or not
// available, nothing is mutated and no loan is created.
func (s *Service) Open(ctx context.Context, req OpenLoanRequest, username string) (*LoanView, error) {
	if len(req.ItemIDs) == 0 || strings.TrimSpace(req.Purpose) == "" {
		return nil, ErrValidation
	}

	borrower, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	l := &domain.Loan{
		RegisterNumber:    register.Number(register.LoanPrefix),
		BorrowerID:        borrower.ID,
		Purpose:           req.Purpose,
		Notes:             req.Notes,
		LoanDate:          time.Now(),
		PlannedReturnDate: req.PlannedReturnDate,
		Status:            domain.LoanOpen,
	}

	if err := s.loans.Open(ctx, l, req.ItemIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemUnavailable):
			metrics.LoansOpened.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, ErrItemUnavailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrItemNotFound
		default:
			metrics.LoansOpened.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, err
		}
	}

	metrics.LoansOpened.WithLabelValues(metrics.OutcomeOK).Inc()
	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}

	return s.toView(ctx, l), nil
}

// Close returns the items of a loan. Closing an already-closed loan is an
// idempotent no-op: the current state comes back and nothing is mutated, the
// evidence file (if any) is not stored.
func (s *Service) Close(ctx context.Context, loanID int64, req CloseLoanRequest, evidence *Evidence, username string) (*LoanView, error) {
	current, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.Status == domain.LoanClosed {
		return s.toView(ctx, current), nil
	}

	for itemID, cond := range req.Conditions {
		if !cond.Valid() {
			return nil, fmt.Errorf("item %d: unknown condition %q: %w", itemID, cond, ErrValidation)
		}
	}

	responsible, err := s.resolveResponsible(ctx, req.Responsible, username)
	if err != nil {
		return nil, err
	}

	var evidenceURL string
	if evidence != nil && s.files != nil {
		url, err := s.files.Store(ctx, evidence.Filename, evidence.ContentType, evidence.Reader)
		if err != nil {
			metrics.LoansClosed.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, errors.Join(ErrStorage, err)
		}
		evidenceURL = url
	}

	closed, err := s.loans.Close(ctx, repository.CloseLoanParams{
		LoanID:       loanID,
		Responsible:  responsible,
		ClosingNotes: req.Notes,
		EvidenceURL:  evidenceURL,
		Conditions:   req.Conditions,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		metrics.LoansClosed.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.LoansClosed.WithLabelValues(metrics.OutcomeOK).Inc()
	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}

	return s.toView(ctx, closed), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*LoanView, error) {
	l, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toView(ctx, l), nil
}

func (s *Service) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]LoanView, int64, error) {
	loans, total, err := s.loans.List(ctx, page, size, sortBy, sortDir)
	if err != nil {
		return nil, 0, err
	}

	out := make([]LoanView, 0, len(loans))
	for i := range loans {
		out = append(out, *s.toView(ctx, &loans[i]))
	}
	return out, total, nil
}

// resolveResponsible builds the tagged variant: an explicit ad-hoc party from
// the request, otherwise the authenticated user.
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

func (s *Service) toView(ctx context.Context, l *domain.Loan) *LoanView {
	v := &LoanView{
		ID:                l.ID,
		RegisterNumber:    l.RegisterNumber,
		BorrowerID:        l.BorrowerID,
		Purpose:           l.Purpose,
		Notes:             l.Notes,
		LoanDate:          l.LoanDate,
		PlannedReturnDate: l.PlannedReturnDate,
		ActualReturnDate:  l.ActualReturnDate,
		Status:            l.Status,
		EvidenceURL:       l.EvidenceURL,
		Lines:             l.Lines,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}

	if u, err := s.users.GetByID(ctx, l.BorrowerID); err == nil {
		v.BorrowerName = u.Name
	}
	v.ResponsibleName = s.responsibleDisplay(ctx, l.Responsible)
	return v
}

// responsibleDisplay projects the tagged variant to a single display string.
func (s *Service) responsibleDisplay(ctx context.Context, rp *domain.ResponsibleParty) string {
	if rp == nil {
		return ""
	}
	switch rp.Kind {
	case domain.ResponsibleRegistered:
		if rp.UserID == nil {
			return ""
		}
		if u, err := s.users.GetByID(ctx, *rp.UserID); err == nil {
			return u.Name
		}
		return ""
	case domain.ResponsibleAdHoc:
		if rp.Title != "" {
			return rp.Name + " (" + rp.Title + ")"
		}
		return rp.Name
	}
	return ""
}
