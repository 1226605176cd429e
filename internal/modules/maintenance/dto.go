package maintenance

import (
	"time"

	"smap/internal/domain"
)

type OpenTicketRequest struct {
	Subject               string            `json:"subject" binding:"required"`
	Notes                 string            `json:"notes"`
	PlannedCompletionDate *time.Time        `json:"planned_completion_date"`
	Lines                 []OpenLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type OpenLineRequest struct {
	ItemID  int64  `json:"item_id" binding:"required"`
	Symptom string `json:"symptom" binding:"required"`
}

// CloseTicketRequest resolves lines by item id. Items absent from the map are
// left unresolved: their lines keep no outcome and the items stay
// in_maintenance. This is partial completion, not a default.
type CloseTicketRequest struct {
	Resolutions map[int64]ResolutionRequest `json:"resolutions"`
	Notes       string                      `json:"notes"`
	Responsible *AdHocResponsible           `json:"responsible,omitempty"`
}

type ResolutionRequest struct {
	RepairNotes   string               `json:"repair_notes"`
	WarrantyUntil *time.Time           `json:"warranty_until"`
	Condition     domain.ItemCondition `json:"condition" binding:"required"`
}

type AdHocResponsible struct {
	Name       string `json:"name" binding:"required"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
}

type TicketView struct {
	ID                    int64               `json:"id"`
	RegisterNumber        string              `json:"register_number"`
	Subject               string              `json:"subject"`
	RequesterID           int64               `json:"requester_id"`
	RequesterName         string              `json:"requester_name,omitempty"`
	ResponsibleName       string              `json:"responsible_name,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	OpenedDate            time.Time           `json:"opened_date"`
	PlannedCompletionDate *time.Time          `json:"planned_completion_date,omitempty"`
	ActualCompletionDate  *time.Time          `json:"actual_completion_date,omitempty"`
	Status                domain.TicketStatus `json:"status"`
	Lines                 []domain.TicketLine `json:"lines"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}
