package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/metrics"
	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// ContextUserKey is where the session middleware attaches the authenticated
// user on the echo context.
const ContextUserKey = "user"

// Session gates protected routes on the accessToken/refreshToken cookies.
//
// State machine:
//   - neither cookie: reject.
//   - no access token, refresh token present: silently mint a rotated pair,
//     set cookies, proceed with the new access token.
//   - access token valid: attach user, proceed.
//   - access token expired, refresh token present: refresh, rotate cookies,
//     proceed; on refresh failure clear both cookies and reject.
//   - anything else (expired without refresh, malformed, wrong signature):
//     clear both cookies and reject.
//
// Rejects are dual-mode: requests under /api get 401, web requests get a
// redirect to /login. Cookie rotation is written before the next handler
// runs so it precedes any render or redirect.
func Session(auth ports.AuthService, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessToken := cookieValue(c, AccessTokenCookie)
			refreshToken := cookieValue(c, RefreshTokenCookie)

			if accessToken == "" && refreshToken == "" {
				return reject(c)
			}

			if accessToken == "" {
				pair, err := auth.Refresh(refreshToken)
				if err != nil {
					metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
					ClearTokenCookies(c, secure)
					return reject(c)
				}
				metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
				SetTokenCookies(c, pair, secure)
				accessToken = pair.AccessToken
				refreshToken = pair.RefreshToken
			}

			user, err := auth.GetUserFromToken(c.Request().Context(), accessToken)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) && refreshToken != "" {
					if user, ok := refreshAndLoad(c, auth, refreshToken, secure); ok {
						c.Set(ContextUserKey, user)
						return next(c)
					}
				}
				ClearTokenCookies(c, secure)
				return reject(c)
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// refreshAndLoad attempts the silent-refresh path: rotate the pair, resolve
// the new access token to a user, and write the rotated cookies.
func refreshAndLoad(c echo.Context, auth ports.AuthService, refreshToken string, secure bool) (*domain.User, bool) {
	pair, err := auth.Refresh(refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return nil, false
	}
	user, err := auth.GetUserFromToken(c.Request().Context(), pair.AccessToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return nil, false
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	SetTokenCookies(c, pair, secure)
	return user, true
}

// IsAPIRequest reports whether the request targets the JSON API. The full
// request path decides the reject behaviour everywhere (401 vs redirect).
func IsAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api")
}

func reject(c echo.Context) error {
	if IsAPIRequest(c) {
		return domain.ErrUnauthorized
	}
	return c.Redirect(http.StatusFound, "/login")
}

// CurrentUser returns the user attached by Session, or nil when the route
// is unprotected.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ContextUserKey).(*domain.User)
	return user
}
