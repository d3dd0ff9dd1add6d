package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// AuthService implements login and token-to-user resolution.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	cache  ports.UserCache
	logger zerolog.Logger
}

// NewAuthService wires the credential verifier. cache may be nil; user
// lookups then always hit the repository.
func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, cache ports.UserCache, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cache: cache, logger: logger}
}

// Login verifies the credentials and returns a fresh token pair.
// Missing user and wrong password both map to ErrInvalidCredentials so the
// response never distinguishes the two. Login is restricted to admins.
func (s *AuthService) Login(ctx context.Context, username, password string) (ports.TokenPair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.TokenPair{}, domain.ErrInvalidCredentials
		}
		return ports.TokenPair{}, err
	}

	if !user.IsAdmin() {
		return ports.TokenPair{}, domain.ErrAccessDenied
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return ports.TokenPair{}, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("admin logged in")
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GetUserFromToken decodes the access token and loads the referenced user.
// Returns ErrUserNotFound when the id no longer exists, e.g. the account was
// deleted after the token was issued.
func (s *AuthService) GetUserFromToken(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if user, ok := s.cache.Get(ctx, userID); ok {
			return user, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The session user travels through caches, templates and JSON encoders;
	// strip the hash here rather than trusting every consumer downstream.
	sanitized := *user
	sanitized.PasswordHash = ""

	if s.cache != nil {
		s.cache.Set(ctx, &sanitized)
	}
	return &sanitized, nil
}

// Refresh rotates the token pair using a still-valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (ports.TokenPair, error) {
	return s.tokens.Refresh(refreshToken)
}
