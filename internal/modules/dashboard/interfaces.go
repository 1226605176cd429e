package dashboard

import (
	"context"

	"smap/internal/domain"
)

type ItemCounter interface {
	CountActive(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.ItemStatus) (int64, error)
}

// OpenCounter counts open transactions; both the loan and the ticket
// repositories satisfy it.
type OpenCounter interface {
	CountOpen(ctx context.Context) (int64, error)
}
