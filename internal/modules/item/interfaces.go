package item

import (
	"context"

	"smap/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, it *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Item, int64, error)
	Update(ctx context.Context, it *domain.Item) error
	SoftDelete(ctx context.Context, id int64) error
}

type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}
