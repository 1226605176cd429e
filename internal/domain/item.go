package domain

import "time"

type ItemCondition string

const (
	ConditionGood        ItemCondition = "good"
	ConditionMinorDamage ItemCondition = "minor_damage"
	ConditionMajorDamage ItemCondition = "major_damage"
	ConditionLost        ItemCondition = "lost"
)

type ItemStatus string

const (
	ItemAvailable     ItemStatus = "available"
	ItemOnLoan        ItemStatus = "on_loan"
	ItemInMaintenance ItemStatus = "in_maintenance"
	ItemDamaged       ItemStatus = "damaged"
	ItemLost          ItemStatus = "lost"
)

// Item is a tracked physical asset. Status is the single source of truth for
// workflow eligibility: only the loan and maintenance engines move it between
// available, on_loan and in_maintenance.
type Item struct {
	ID              int64         `json:"id"`
	Code            string        `json:"code" validate:"required"`
	AssetNumber     string        `json:"asset_number,omitempty"`
	Name            string        `json:"name" validate:"required"`
	Brand           string        `json:"brand,omitempty"`
	Size            string        `json:"size,omitempty"`
	Category        string        `json:"category,omitempty"`
	Warehouse       string        `json:"warehouse,omitempty"`
	Location        string        `json:"location,omitempty"`
	Condition       ItemCondition `json:"condition"`
	Status          ItemStatus    `json:"status"`
	AcquisitionDate *time.Time    `json:"acquisition_date,omitempty"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	ProductBarcode  string        `json:"product_barcode,omitempty"`
	SerialBarcode   string        `json:"serial_barcode,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Deleted         bool          `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionMinorDamage, ConditionMajorDamage, ConditionLost:
		return true
	}
	return false
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemOnLoan, ItemInMaintenance, ItemDamaged, ItemLost:
		return true
	}
	return false
}
