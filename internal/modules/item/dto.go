package item

import (
	"time"

	"smap/internal/domain"
)

type CreateItemRequest struct {
	Code            string               `json:"code" binding:"required"`
	AssetNumber     string               `json:"asset_number"`
	Name            string               `json:"name" binding:"required"`
	Brand           string               `json:"brand"`
	Size            string               `json:"size"`
	Category        string               `json:"category"`
	Warehouse       string               `json:"warehouse"`
	Location        string               `json:"location"`
	Condition       domain.ItemCondition `json:"condition"`
	AcquisitionDate *time.Time           `json:"acquisition_date"`
	PhotoURL        string               `json:"photo_url"`
	ProductBarcode  string               `json:"product_barcode"`
	SerialBarcode   string               `json:"serial_barcode"`
	Notes           string               `json:"notes"`
}

// UpdateItemRequest deliberately has no status field. Status belongs to the
// loan and maintenance engines; edits here can correct descriptive fields and
// the assessed condition, nothing else.
type UpdateItemRequest struct {
	AssetNumber     string               `json:"asset_number"`
	Name            string               `json:"name" binding:"required"`
	Brand           string               `json:"brand"`
	Size            string               `json:"size"`
	Category        string               `json:"category"`
	Warehouse       string               `json:"warehouse"`
	Location        string               `json:"location"`
	Condition       domain.ItemCondition `json:"condition"`
	AcquisitionDate *time.Time           `json:"acquisition_date"`
	PhotoURL        string               `json:"photo_url"`
	ProductBarcode  string               `json:"product_barcode"`
	SerialBarcode   string               `json:"serial_barcode"`
	Notes           string               `json:"notes"`
}
