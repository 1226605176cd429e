package domain

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket is the aggregate root for a maintenance transaction, structurally
// symmetric to Loan. Lines are owned by value.
type Ticket struct {
	ID                    int64             `json:"id"`
	RegisterNumber        string            `json:"register_number"`
	Subject               string            `json:"subject"`
	RequesterID           int64             `json:"requester_id"`
	Responsible           *ResponsibleParty `json:"responsible,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
	OpenedDate            time.Time         `json:"opened_date"`
	PlannedCompletionDate *time.Time        `json:"planned_completion_date,omitempty"`
	ActualCompletionDate  *time.Time        `json:"actual_completion_date,omitempty"`
	Status                TicketStatus      `json:"status"`
	Lines                 []TicketLine      `json:"lines"`
	Deleted               bool              `json:"-"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// TicketLine records one item under maintenance. Symptom is captured at open;
// repair notes, warranty and condition-in are filled only when the line is
// resolved at close. A line whose item never appears in a close request stays
// unresolved and its item stays in_maintenance.
type TicketLine struct {
	ID            int64          `json:"id"`
	TicketID      int64          `json:"ticket_id"`
	ItemID        int64          `json:"item_id"`
	ItemCode      string         `json:"item_code,omitempty"`
	ItemName      string         `json:"item_name,omitempty"`
	Symptom       string         `json:"symptom"`
	RepairNotes   string         `json:"repair_notes,omitempty"`
	WarrantyUntil *time.Time     `json:"warranty_until,omitempty"`
	ConditionIn   *ItemCondition `json:"condition_in,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}

// Resolved reports whether the line has been closed out.
func (l TicketLine) Resolved() bool { return l.ConditionIn != nil }
