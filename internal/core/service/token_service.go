package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// tokenClaims is the single claim shape used by both token kinds:
// the numeric user id plus the registered time bounds.
type tokenClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access and refresh tokens.
// Access and refresh tokens are signed with different secrets so one can
// never be accepted in place of the other. Tokens are stateless: no
// server-side record, no revocation.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
	}
}

func (s *TokenService) IssueAccessToken(userID int64) (string, error) {
	return sign(userID, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID int64) (string, error) {
	return sign(userID, s.refreshSecret, s.refreshTTL)
}

// ParseAccess verifies the access token and returns the embedded user id.
func (s *TokenService) ParseAccess(token string) (int64, error) {
	return parse(token, s.accessSecret)
}

// ParseRefresh verifies the refresh token and returns the embedded user id.
func (s *TokenService) ParseRefresh(token string) (int64, error) {
	return parse(token, s.refreshSecret)
}

// Refresh verifies the refresh token and mints a new rotated pair.
// Both tokens are reissued on every refresh; an invalid or expired refresh
// token propagates its error and the caller must force re-authentication.
func (s *TokenService) Refresh(refreshToken string) (ports.TokenPair, error) {
	userID, err := s.ParseRefresh(refreshToken)
	if err != nil {
		return ports.TokenPair{}, err
	}

	access, err := s.IssueAccessToken(userID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(userID)
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sign(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// Random jti: two tokens minted within the same second must
			// still differ, otherwise rotation would be a no-op.
			ID:        randomID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func parse(token string, secret []byte) (int64, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.UserID == 0 {
		return 0, domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}

func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
