package domain

import "time"

type LoanStatus string

const (
	LoanOpen   LoanStatus = "open"
	LoanClosed LoanStatus = "closed"
)

// ResponsiblePartyKind tags the ResponsibleParty variant.
type ResponsiblePartyKind string

const (
	ResponsibleRegistered ResponsiblePartyKind = "registered"
	ResponsibleAdHoc      ResponsiblePartyKind = "ad_hoc"
)

// ResponsibleParty is the person who closes out a transaction. Either a
// registered user (UserID set) or an ad-hoc party identified by free text.
type ResponsibleParty struct {
	Kind       ResponsiblePartyKind `json:"kind"`
	UserID     *int64               `json:"user_id,omitempty"`
	Name       string               `json:"name,omitempty"`
	ExternalID string               `json:"external_id,omitempty"`
	Title      string               `json:"title,omitempty"`
}

// Loan is the aggregate root for a borrowing transaction. Lines are owned by
// value and persisted together with the loan; they never outlive it.
type Loan struct {
	ID                int64             `json:"id"`
	RegisterNumber    string            `json:"register_number"`
	BorrowerID        int64             `json:"borrower_id"`
	Responsible       *ResponsibleParty `json:"responsible,omitempty"`
	Purpose           string            `json:"purpose"`
	Notes             string            `json:"notes,omitempty"`
	LoanDate          time.Time         `json:"loan_date"`
	PlannedReturnDate *time.Time        `json:"planned_return_date,omitempty"`
	ActualReturnDate  *time.Time        `json:"actual_return_date,omitempty"`
	Status            LoanStatus        `json:"status"`
	EvidenceURL       string            `json:"evidence_url,omitempty"`
	Lines             []LoanLine        `json:"lines"`
	Deleted           bool              `json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// LoanLine captures one item inside a loan: its condition when handed out and,
// once the loan closes, the condition it came back in.
type LoanLine struct {
	ID           int64          `json:"id"`
	LoanID       int64          `json:"loan_id"`
	ItemID       int64          `json:"item_id"`
	ItemCode     string         `json:"item_code,omitempty"`
	ItemName     string         `json:"item_name,omitempty"`
	ConditionOut ItemCondition  `json:"condition_out"`
	ConditionIn  *ItemCondition `json:"condition_in,omitempty"`
	Notes        string         `json:"notes,omitempty"`
}
