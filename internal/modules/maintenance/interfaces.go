package maintenance

import (
	"context"

	"smap/internal/domain"
	"smap/internal/repository"
)

// TicketRepository owns the atomic open/close transactions over tickets,
// lines and the item register.
type TicketRepository interface {
	Open(ctx context.Context, ticket *domain.Ticket, lines []repository.TicketOpenLine) error
	Close(ctx context.Context, p repository.CloseTicketParams) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Ticket, int64, error)
}

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}
