package loan

import (
	"time"

	"smap/internal/domain"
)

type OpenLoanRequest struct {
	ItemIDs           []int64    `json:"item_ids" binding:"required,min=1"`
	Purpose           string     `json:"purpose" binding:"required"`
	Notes             string     `json:"notes"`
	PlannedReturnDate *time.Time `json:"planned_return_date"`
}

// CloseLoanRequest is the JSON part of the multipart return payload. The
// conditions map may be partial; omitted items fall back to their loan-out
// condition. Responsible identifies who signs the return when it is not the
// authenticated user.
type CloseLoanRequest struct {
	Conditions  map[int64]domain.ItemCondition `json:"conditions"`
	Notes       string                         `json:"notes"`
	Responsible *AdHocResponsible              `json:"responsible,omitempty"`
}

type AdHocResponsible struct {
	Name       string `json:"name" binding:"required"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
}

// LoanView is the response shape: the loan with nested lines and resolved
// display names.
type LoanView struct {
	ID                int64             `json:"id"`
	RegisterNumber    string            `json:"register_number"`
	BorrowerID        int64             `json:"borrower_id"`
	BorrowerName      string            `json:"borrower_name,omitempty"`
	ResponsibleName   string            `json:"responsible_name,omitempty"`
	Purpose           string            `json:"purpose"`
	Notes             string            `json:"notes,omitempty"`
	LoanDate          time.Time         `json:"loan_date"`
	PlannedReturnDate *time.Time        `json:"planned_return_date,omitempty"`
	ActualReturnDate  *time.Time        `json:"actual_return_date,omitempty"`
	Status            domain.LoanStatus `json:"status"`
	EvidenceURL       string            `json:"evidence_url,omitempty"`
	Lines             []domain.LoanLine `json:"lines"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
