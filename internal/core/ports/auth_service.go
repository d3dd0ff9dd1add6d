package ports

import (
	"context"

	"github.com/adminhub/user-management/internal/core/domain"
)

// TokenPair is an access/refresh token couple minted together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer creates and verifies the signed, time-bounded tokens.
type TokenIssuer interface {
	IssueAccessToken(userID int64) (string, error)
	IssueRefreshToken(userID int64) (string, error)
	// ParseAccess returns the user id carried by the access token, or
	// domain.ErrTokenExpired / domain.ErrTokenInvalid.
	ParseAccess(token string) (int64, error)
	ParseRefresh(token string) (int64, error)
	// Refresh verifies the refresh token and mints a new rotated pair.
	Refresh(refreshToken string) (TokenPair, error)
}

// AuthService authenticates credentials and resolves tokens to users.
type AuthService interface {
	// Login verifies username/password and returns a fresh token pair.
	// Only admin accounts may authenticate; valid non-admin credentials
	// yield domain.ErrAccessDenied.
	Login(ctx context.Context, username, password string) (TokenPair, error)
	// GetUserFromToken decodes the access token and loads the referenced
	// user. domain.ErrUserNotFound when the id no longer exists.
	GetUserFromToken(ctx context.Context, accessToken string) (*domain.User, error)
	Refresh(refreshToken string) (TokenPair, error)
}
