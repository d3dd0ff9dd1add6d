package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	defaultSortBy = "created_at"
	defaultOrder  = "DESC"
)

// allowedSortFields is the whitelist for the list endpoint. Anything else
// silently falls back to created_at.
var allowedSortFields = map[string]struct{}{
	"username":   {},
	"first_name": {},
	"last_name":  {},
	"birth_date": {},
	"created_at": {},
}

// UserService implements CRUD over users.
type UserService struct {
	repo       ports.UserRepository
	cache      ports.UserCache
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService wires the user use-cases. bcryptCost <= 0 selects the
// bcrypt default. cache may be nil.
func NewUserService(repo ports.UserRepository, cache ports.UserCache, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, cache: cache, bcryptCost: bcryptCost, logger: logger}
}

// List returns one page of users with the requested (whitelisted) ordering.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sortBy := input.SortBy
	if _, ok := allowedSortFields[sortBy]; !ok {
		sortBy = defaultSortBy
	}
	order := strings.ToUpper(input.Order)
	if order != "ASC" && order != "DESC" {
		order = defaultOrder
	}

	users, total, err := s.repo.List(ctx, ports.ListOptions{
		Offset: int64(page-1) * int64(limit),
		Limit:  int64(limit),
		SortBy: sortBy,
		Order:  order,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListUsersResult{
		Users: users,
		Pagination: ports.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByID loads a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create registers a new user; the username must be unique.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Gender:       input.Gender,
		BirthDate:    input.BirthDate,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// Update mutates an existing user. A username change re-checks uniqueness;
// a non-empty NewPassword replaces the stored hash.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
			return nil, domain.ErrUsernameExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Username = input.Username
	}

	if input.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Gender = input.Gender
	user.BirthDate = input.BirthDate
	if input.Role != "" {
		user.Role = input.Role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete removes a user. Deleting your own account is forbidden.
func (s *UserService) Delete(ctx context.Context, id, currentUserID int64) error {
	if id == currentUserID {
		return domain.ErrSelfDelete
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.logger.Info().Int64("user_id", id).Int64("deleted_by", currentUserID).Msg("user deleted")
	return nil
}
