package report

import (
	"context"
	"encoding/csv"
	"io"

	"smap/internal/domain"
)

type ItemLister interface {
	ListActive(ctx context.Context) ([]domain.Item, error)
}

type Service struct {
	items ItemLister
}

func NewService(items ItemLister) *Service {
	return &Service{items: items}
}

var itemCSVHeader = []string{
	"code", "asset_number", "name", "brand", "category",
	"warehouse", "location", "condition", "status", "acquisition_date",
}

// WriteItemRegister streams the active item register as CSV. Soft-deleted
// items are excluded; dates are formatted as YYYY-MM-DD.
func (s *Service) WriteItemRegister(ctx context.Context, w io.Writer) error {
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(itemCSVHeader); err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		acquired := ""
		if it.AcquisitionDate != nil {
			acquired = it.AcquisitionDate.Format("2006-01-02")
		}
		record := []string{
			it.Code,
			it.AssetNumber,
			it.Name,
			it.Brand,
			it.Category,
			it.Warehouse,
			it.Location,
			string(it.Condition),
			string(it.Status),
			acquired,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
