package loan

import (
	"context"
	"io"

	"smap/internal/domain"
	"smap/internal/repository"
)

// LoanRepository owns the atomic open/close transactions over loans, lines
// and the item register.
type LoanRepository interface {
	Open(ctx context.Context, loan *domain.Loan, itemIDs []int64) error
	Close(ctx context.Context, p repository.CloseLoanParams) (*domain.Loan, error)
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Loan, int64, error)
}

// UserRepository resolves the pre-authenticated username to a user reference.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// FileStore receives the signed handover document at close time.
type FileStore interface {
	Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// SummaryInvalidator is notified after every successful mutation so the
// dashboard rollup recomputes.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}
