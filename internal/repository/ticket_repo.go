package repository

import (
	"context"
	"fmt"
	"time"

	"smap/internal/domain"

	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

type ticketModel struct {
	ID                    int64      `gorm:"column:id;primaryKey"`
	RegisterNumber        string     `gorm:"column:register_number;uniqueIndex;not null"`
	Subject               string     `gorm:"column:subject;not null"`
	RequesterID           int64      `gorm:"column:requester_id;not null"`
	ResponsibleKind       *string    `gorm:"column:responsible_kind"`
	ResponsibleUserID     *int64     `gorm:"column:responsible_user_id"`
	ResponsibleName       *string    `gorm:"column:responsible_name"`
	ResponsibleExternalID *string    `gorm:"column:responsible_external_id"`
	ResponsibleTitle      *string    `gorm:"column:responsible_title"`
	Notes                 *string    `gorm:"column:notes;type:text"`
	OpenedDate            time.Time  `gorm:"column:opened_date;not null"`
	PlannedCompletionDate *time.Time `gorm:"column:planned_completion_date"`
	ActualCompletionDate  *time.Time `gorm:"column:actual_completion_date"`
	Status                string     `gorm:"column:status;not null"`
	Deleted               bool       `gorm:"column:deleted;not null;default:false"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (ticketModel) TableName() string { return "tickets" }

type ticketLineModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	TicketID      int64      `gorm:"column:ticket_id;index;not null"`
	ItemID        int64      `gorm:"column:item_id;index;not null"`
	Symptom       string     `gorm:"column:symptom;type:text;not null"`
	RepairNotes   *string    `gorm:"column:repair_notes;type:text"`
	WarrantyUntil *time.Time `gorm:"column:warranty_until"`
	ConditionIn   *string    `gorm:"column:condition_in"`
	Notes         *string    `gorm:"column:notes;type:text"`
}

func (ticketLineModel) TableName() string { return "ticket_lines" }

type ticketLineRow struct {
	ID            int64
	TicketID      int64
	ItemID        int64
	Symptom       string
	RepairNotes   *string
	WarrantyUntil *time.Time
	ConditionIn   *string
	Notes         *string
	ItemCode      string
	ItemName      string
}

func toDomainTicket(m ticketModel) *domain.Ticket {
	return &domain.Ticket{
		ID:                    m.ID,
		RegisterNumber:        m.RegisterNumber,
		Subject:               m.Subject,
		RequesterID:           m.RequesterID,
		Responsible:           toDomainResponsible(m.ResponsibleKind, m.ResponsibleUserID, m.ResponsibleName, m.ResponsibleExternalID, m.ResponsibleTitle),
		Notes:                 strVal(m.Notes),
		OpenedDate:            m.OpenedDate,
		PlannedCompletionDate: m.PlannedCompletionDate,
		ActualCompletionDate:  m.ActualCompletionDate,
		Status:                domain.TicketStatus(m.Status),
		Deleted:               m.Deleted,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toDomainTicketLine(r ticketLineRow) domain.TicketLine {
	var condIn *domain.ItemCondition
	if r.ConditionIn != nil {
		c := domain.ItemCondition(*r.ConditionIn)
		condIn = &c
	}
	return domain.TicketLine{
		ID:            r.ID,
		TicketID:      r.TicketID,
		ItemID:        r.ItemID,
		ItemCode:      r.ItemCode,
		ItemName:      r.ItemName,
		Symptom:       r.Symptom,
		RepairNotes:   strVal(r.RepairNotes),
		WarrantyUntil: r.WarrantyUntil,
		ConditionIn:   condIn,
		Notes:         strVal(r.Notes),
	}
}

// TicketOpenLine is one requested item with its fault description.
type TicketOpenLine struct {
	ItemID  int64
	Symptom string
}

// Open creates the ticket and its lines, moving every requested item from
// available to in_maintenance atomically. Same all-or-nothing contract as
// LoanRepository.Open; no condition snapshot is taken at open time.
func (r *TicketRepository) Open(ctx context.Context, ticket *domain.Ticket, reqLines []TicketOpenLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]ticketLineModel, 0, len(reqLines))
		for _, rl := range reqLines {
			var it itemModel
			if err := tx.First(&it, "id = ? AND deleted = ?", rl.ItemID, false).Error; err != nil {
				return fmt.Errorf("item %d: %w", rl.ItemID, err)
			}

			res := tx.Model(&itemModel{}).
				Where("id = ? AND status = ?", it.ID, string(domain.ItemAvailable)).
				Update("status", string(domain.ItemInMaintenance))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("item %s: %w", it.Code, ErrItemUnavailable)
			}

			lines = append(lines, ticketLineModel{
				ItemID:  it.ID,
				Symptom: rl.Symptom,
			})
		}

		m := ticketModel{
			RegisterNumber:        ticket.RegisterNumber,
			Subject:               ticket.Subject,
			RequesterID:           ticket.RequesterID,
			Notes:                 strPtr(ticket.Notes),
			OpenedDate:            ticket.OpenedDate,
			PlannedCompletionDate: ticket.PlannedCompletionDate,
			Status:                string(ticket.Status),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].TicketID = m.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		got, err := loadTicket(tx, m.ID)
		if err != nil {
			return err
		}
		*ticket = *got
		return nil
	})
}

// TicketResolution is the close-time outcome for one item.
type TicketResolution struct {
	RepairNotes   string
	WarrantyUntil *time.Time
	Condition     domain.ItemCondition
}

// CloseTicketParams carries the close transaction inputs. Resolutions maps
// item id to its outcome; lines whose item id is absent stay unresolved and
// their items stay in_maintenance. There is deliberately no fallback here,
// unlike the loan close.
type CloseTicketParams struct {
	TicketID     int64
	Responsible  domain.ResponsibleParty
	ClosingNotes string
	Resolutions  map[int64]TicketResolution
}

// Close finalizes a ticket. Idempotent no-op when already closed.
func (r *TicketRepository) Close(ctx context.Context, p CloseTicketParams) (*domain.Ticket, error) {
	var out *domain.Ticket
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m ticketModel
		if err := tx.First(&m, "id = ? AND deleted = ?", p.TicketID, false).Error; err != nil {
			return err
		}

		if m.Status == string(domain.TicketClosed) {
			got, err := loadTicket(tx, m.ID)
			if err != nil {
				return err
			}
			out = got
			return nil
		}

		now := time.Now()
		kind := string(p.Responsible.Kind)
		m.ResponsibleKind = &kind
		m.ResponsibleUserID = p.Responsible.UserID
		m.ResponsibleName = strPtr(p.Responsible.Name)
		m.ResponsibleExternalID = strPtr(p.Responsible.ExternalID)
		m.ResponsibleTitle = strPtr(p.Responsible.Title)
		m.ActualCompletionDate = &now
		m.Status = string(domain.TicketClosed)
		if p.ClosingNotes != "" {
			joined := strVal(m.Notes)
			if joined != "" {
				joined += " | Penyelesaian: " + p.ClosingNotes
			} else {
				joined = "Penyelesaian: " + p.ClosingNotes
			}
			m.Notes = &joined
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}

		var lines []ticketLineModel
		if err := tx.Where("ticket_id = ?", m.ID).Order("id").Find(&lines).Error; err != nil {
			return err
		}

		for i := range lines {
			res, ok := p.Resolutions[lines[i].ItemID]
			if !ok {
				continue
			}

			condStr := string(res.Condition)
			lines[i].RepairNotes = strPtr(res.RepairNotes)
			lines[i].WarrantyUntil = res.WarrantyUntil
			lines[i].ConditionIn = &condStr
			if err := tx.Save(&lines[i]).Error; err != nil {
				return err
			}

			upd := tx.Model(&itemModel{}).
				Where("id = ?", lines[i].ItemID).
				Updates(map[string]any{
					"status":    string(domain.ItemAvailable),
					"condition": condStr,
				})
			if upd.Error != nil {
				return upd.Error
			}
		}

		got, err := loadTicket(tx, m.ID)
		if err != nil {
			return err
		}
		out = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return loadTicket(r.db.WithContext(ctx), id)
}

func loadTicket(tx *gorm.DB, id int64) (*domain.Ticket, error) {
	var m ticketModel
	if err := tx.First(&m, "id = ? AND deleted = ?", id, false).Error; err != nil {
		return nil, err
	}
	ticket := toDomainTicket(m)

	lines, err := loadTicketLines(tx, []int64{id})
	if err != nil {
		return nil, err
	}
	ticket.Lines = lines[id]
	if ticket.Lines == nil {
		ticket.Lines = []domain.TicketLine{}
	}
	return ticket, nil
}

func loadTicketLines(tx *gorm.DB, ticketIDs []int64) (map[int64][]domain.TicketLine, error) {
	var rows []ticketLineRow
	err := tx.Table("ticket_lines").
		Select("ticket_lines.*, items.code AS item_code, items.name AS item_name").
		Joins("JOIN items ON items.id = ticket_lines.item_id").
		Where("ticket_lines.ticket_id IN ?", ticketIDs).
		Order("ticket_lines.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]domain.TicketLine, len(ticketIDs))
	for _, row := range rows {
		out[row.TicketID] = append(out[row.TicketID], toDomainTicketLine(row))
	}
	return out, nil
}

var ticketSortColumns = map[string]string{
	"id":              "id",
	"register_number": "register_number",
	"opened_date":     "opened_date",
	"status":          "status",
	"created_at":      "created_at",
}

func (r *TicketRepository) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&ticketModel{}).Where("deleted = ?", false)

	var total int64
	if tx := q.Count(&total); tx.Error != nil {
		return nil, 0, tx.Error
	}

	var ms []ticketModel
	tx := q.Order(orderClause(ticketSortColumns, sortBy, sortDir)).
		Limit(size).Offset(page * size).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	if len(ms) == 0 {
		return []domain.Ticket{}, total, nil
	}

	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	lines, err := loadTicketLines(r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Ticket, 0, len(ms))
	for _, m := range ms {
		t := toDomainTicket(m)
		t.Lines = lines[m.ID]
		if t.Lines == nil {
			t.Lines = []domain.TicketLine{}
		}
		out = append(out, *t)
	}
	return out, total, nil
}

func (r *TicketRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&ticketModel{}).
		Where("status = ? AND deleted = ?", string(domain.TicketOpen), false).Count(&n)
	return n, tx.Error
}
