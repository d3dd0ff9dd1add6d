package ports

import (
	"context"
	"time"

	"github.com/adminhub/user-management/internal/core/domain"
)

// ListUsersInput carries raw query parameters for the list endpoint.
// Unknown sort fields and orders fall back to created_at DESC; page and
// limit are clamped to sane defaults by the service.
type ListUsersInput struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// Pagination describes the page window of a list result.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Users      []domain.User
	Pagination Pagination
}

// CreateUserInput carries validated data for user creation.
type CreateUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Gender    string
	BirthDate time.Time
	Role      string // empty defaults to domain.RoleUser
}

// UpdateUserInput carries validated data for user update. NewPassword, when
// non-empty, replaces the stored hash.
type UpdateUserInput struct {
	Username    string
	NewPassword string
	FirstName   string
	LastName    string
	Gender      string
	BirthDate   time.Time
	Role        string
}

// UserService defines the use-case operations over users.
type UserService interface {
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	// Delete removes the user with the given id. currentUserID guards the
	// self-delete case: a user may never delete their own account.
	Delete(ctx context.Context, id, currentUserID int64) error
}
