package repository

import (
	"context"
	"fmt"
	"time"

	"smap/internal/domain"

	"gorm.io/gorm"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

type loanModel struct {
	ID                    int64      `gorm:"column:id;primaryKey"`
	RegisterNumber        string     `gorm:"column:register_number;uniqueIndex;not null"`
	BorrowerID            int64      `gorm:"column:borrower_id;not null"`
	ResponsibleKind       *string    `gorm:"column:responsible_kind"`
	ResponsibleUserID     *int64     `gorm:"column:responsible_user_id"`
	ResponsibleName       *string    `gorm:"column:responsible_name"`
	ResponsibleExternalID *string    `gorm:"column:responsible_external_id"`
	ResponsibleTitle      *string    `gorm:"column:responsible_title"`
	Purpose               string     `gorm:"column:purpose;not null"`
	Notes                 *string    `gorm:"column:notes;type:text"`
	LoanDate              time.Time  `gorm:"column:loan_date;not null"`
	PlannedReturnDate     *time.Time `gorm:"column:planned_return_date"`
	ActualReturnDate      *time.Time `gorm:"column:actual_return_date"`
	Status                string     `gorm:"column:status;not null"`
	EvidenceURL           *string    `gorm:"column:evidence_url"`
	Deleted               bool       `gorm:"column:deleted;not null;default:false"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (loanModel) TableName() string { return "loans" }

type loanLineModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	LoanID       int64   `gorm:"column:loan_id;index;not null"`
	ItemID       int64   `gorm:"column:item_id;index;not null"`
	ConditionOut string  `gorm:"column:condition_out;not null"`
	ConditionIn  *string `gorm:"column:condition_in"`
	Notes        *string `gorm:"column:notes;type:text"`
}

func (loanLineModel) TableName() string { return "loan_lines" }

// loanLineRow is the read shape for lines joined with the item register for
// display names.
type loanLineRow struct {
	ID           int64
	LoanID       int64
	ItemID       int64
	ConditionOut string
	ConditionIn  *string
	Notes        *string
	ItemCode     string
	ItemName     string
}

func toDomainResponsible(kind *string, userID *int64, name, externalID, title *string) *domain.ResponsibleParty {
	if kind == nil {
		return nil
	}
	return &domain.ResponsibleParty{
		Kind:       domain.ResponsiblePartyKind(*kind),
		UserID:     userID,
		Name:       strVal(name),
		ExternalID: strVal(externalID),
		Title:      strVal(title),
	}
}

func toDomainLoan(m loanModel) *domain.Loan {
	return &domain.Loan{
		ID:                m.ID,
		RegisterNumber:    m.RegisterNumber,
		BorrowerID:        m.BorrowerID,
		Responsible:       toDomainResponsible(m.ResponsibleKind, m.ResponsibleUserID, m.ResponsibleName, m.ResponsibleExternalID, m.ResponsibleTitle),
		Purpose:           m.Purpose,
		Notes:             strVal(m.Notes),
		LoanDate:          m.LoanDate,
		PlannedReturnDate: m.PlannedReturnDate,
		ActualReturnDate:  m.ActualReturnDate,
		Status:            domain.LoanStatus(m.Status),
		EvidenceURL:       strVal(m.EvidenceURL),
		Deleted:           m.Deleted,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toDomainLoanLine(r loanLineRow) domain.LoanLine {
	var condIn *domain.ItemCondition
	if r.ConditionIn != nil {
		c := domain.ItemCondition(*r.ConditionIn)
		condIn = &c
	}
	return domain.LoanLine{
		ID:           r.ID,
		LoanID:       r.LoanID,
		ItemID:       r.ItemID,
		ItemCode:     r.ItemCode,
		ItemName:     r.ItemName,
		ConditionOut: domain.ItemCondition(r.ConditionOut),
		ConditionIn:  condIn,
		Notes:        strVal(r.Notes),
	}
}

// Open creates the loan and its lines, flipping every requested item from
// available to on_loan in one transaction. The check-then-set runs as a
// conditional UPDATE so a concurrent open on the same item leaves exactly one
// winner; the loser rolls back with ErrItemUnavailable and no loan row.
func (r *LoanRepository) Open(ctx context.Context, loan *domain.Loan, itemIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]loanLineModel, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			var it itemModel
			if err := tx.First(&it, "id = ? AND deleted = ?", itemID, false).Error; err != nil {
				return fmt.Errorf("item %d: %w", itemID, err)
			}

			res := tx.Model(&itemModel{}).
				Where("id = ? AND status = ?", it.ID, string(domain.ItemAvailable)).
				Update("status", string(domain.ItemOnLoan))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("item %s: %w", it.Code, ErrItemUnavailable)
			}

			lines = append(lines, loanLineModel{
				ItemID:       it.ID,
				ConditionOut: it.Condition,
			})
		}

		m := loanModel{
			RegisterNumber:    loan.RegisterNumber,
			BorrowerID:        loan.BorrowerID,
			Purpose:           loan.Purpose,
			Notes:             strPtr(loan.Notes),
			LoanDate:          loan.LoanDate,
			PlannedReturnDate: loan.PlannedReturnDate,
			Status:            string(loan.Status),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].LoanID = m.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		got, err := loadLoan(tx, m.ID)
		if err != nil {
			return err
		}
		*loan = *got
		return nil
	})
}

// CloseLoanParams carries everything the close transaction needs. Conditions
// maps item id to the reported returned condition; items missing from the map
// fall back to the condition recorded at loan-out time.
type CloseLoanParams struct {
	LoanID       int64
	Responsible  domain.ResponsibleParty
	ClosingNotes string
	EvidenceURL  string
	Conditions   map[int64]domain.ItemCondition
}

// Close finalizes an open loan and returns every item to available. Closing an
// already-closed loan is an idempotent no-op returning the current state.
func (r *LoanRepository) Close(ctx context.Context, p CloseLoanParams) (*domain.Loan, error) {
	var out *domain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m loanModel
		if err := tx.First(&m, "id = ? AND deleted = ?", p.LoanID, false).Error; err != nil {
			return err
		}

		if m.Status == string(domain.LoanClosed) {
			got, err := loadLoan(tx, m.ID)
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
		m.ActualReturnDate = &now
		m.Status = string(domain.LoanClosed)
		if p.EvidenceURL != "" {
			m.EvidenceURL = &p.EvidenceURL
		}
		if p.ClosingNotes != "" {
			joined := strVal(m.Notes)
			if joined != "" {
				joined += " | Pengembalian: " + p.ClosingNotes
			} else {
				joined = "Pengembalian: " + p.ClosingNotes
			}
			m.Notes = &joined
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}

		var lines []loanLineModel
		if err := tx.Where("loan_id = ?", m.ID).Order("id").Find(&lines).Error; err != nil {
			return err
		}

		for i := range lines {
			cond, ok := p.Conditions[lines[i].ItemID]
			if !ok {
				cond = domain.ItemCondition(lines[i].ConditionOut)
			}
			condStr := string(cond)
			lines[i].ConditionIn = &condStr
			if err := tx.Save(&lines[i]).Error; err != nil {
				return err
			}

			res := tx.Model(&itemModel{}).
				Where("id = ?", lines[i].ItemID).
				Updates(map[string]any{
					"status":    string(domain.ItemAvailable),
					"condition": condStr,
				})
			if res.Error != nil {
				return res.Error
			}
		}

		got, err := loadLoan(tx, m.ID)
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

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	return loadLoan(r.db.WithContext(ctx), id)
}

func loadLoan(tx *gorm.DB, id int64) (*domain.Loan, error) {
	var m loanModel
	if err := tx.First(&m, "id = ? AND deleted = ?", id, false).Error; err != nil {
		return nil, err
	}
	loan := toDomainLoan(m)

	lines, err := loadLoanLines(tx, []int64{id})
	if err != nil {
		return nil, err
	}
	loan.Lines = lines[id]
	if loan.Lines == nil {
		loan.Lines = []domain.LoanLine{}
	}
	return loan, nil
}

func loadLoanLines(tx *gorm.DB, loanIDs []int64) (map[int64][]domain.LoanLine, error) {
	var rows []loanLineRow
	err := tx.Table("loan_lines").
		Select("loan_lines.*, items.code AS item_code, items.name AS item_name").
		Joins("JOIN items ON items.id = loan_lines.item_id").
		Where("loan_lines.loan_id IN ?", loanIDs).
		Order("loan_lines.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]domain.LoanLine, len(loanIDs))
	for _, row := range rows {
		out[row.LoanID] = append(out[row.LoanID], toDomainLoanLine(row))
	}
	return out, nil
}

var loanSortColumns = map[string]string{
	"id":              "id",
	"register_number": "register_number",
	"loan_date":       "loan_date",
	"status":          "status",
	"created_at":      "created_at",
}

func (r *LoanRepository) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Loan, int64, error) {
	q := r.db.WithContext(ctx).Model(&loanModel{}).Where("deleted = ?", false)

	var total int64
	if tx := q.Count(&total); tx.Error != nil {
		return nil, 0, tx.Error
	}

	var ms []loanModel
	tx := q.Order(orderClause(loanSortColumns, sortBy, sortDir)).
		Limit(size).Offset(page * size).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	if len(ms) == 0 {
		return []domain.Loan{}, total, nil
	}

	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	lines, err := loadLoanLines(r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Loan, 0, len(ms))
	for _, m := range ms {
		l := toDomainLoan(m)
		l.Lines = lines[m.ID]
		if l.Lines == nil {
			l.Lines = []domain.LoanLine{}
		}
		out = append(out, *l)
	}
	return out, total, nil
}

func (r *LoanRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&loanModel{}).
		Where("status = ? AND deleted = ?", string(domain.LoanOpen), false).Count(&n)
	return n, tx.Error
}
