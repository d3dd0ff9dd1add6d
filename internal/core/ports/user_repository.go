package ports

import (
	"context"

	"github.com/adminhub/user-management/internal/core/domain"
)

// ListOptions carries pagination and sorting for the user list query.
// SortBy and Order are assumed to be already whitelisted by the service.
type ListOptions struct {
	Offset int64
	Limit  int64
	SortBy string
	Order  string // "ASC" or "DESC"
}

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]domain.User, int64, error)
}
