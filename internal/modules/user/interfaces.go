package user

import (
	"context"

	"smap/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.User, int64, error)
	Update(ctx context.Context, u *domain.User) error
	SoftDelete(ctx context.Context, id int64) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
