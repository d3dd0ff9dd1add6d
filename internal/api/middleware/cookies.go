package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/core/ports"
	"github.com/adminhub/user-management/internal/core/service"
)

// Cookie names shared by the session and CSRF middleware.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	CSRFCookie         = "_csrf"
)

func newCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetTokenCookies writes both token cookies with max-ages matching the token
// lifetimes. Must run before any render or redirect is committed.
func SetTokenCookies(c echo.Context, pair ports.TokenPair, secure bool) {
	c.SetCookie(newCookie(AccessTokenCookie, pair.AccessToken, service.AccessTokenTTL, secure))
	c.SetCookie(newCookie(RefreshTokenCookie, pair.RefreshToken, service.RefreshTokenTTL, secure))
}

// ClearTokenCookies rewrites both token cookies with an expired max-age.
func ClearTokenCookies(c echo.Context, secure bool) {
	c.SetCookie(expiredCookie(AccessTokenCookie, secure))
	c.SetCookie(expiredCookie(RefreshTokenCookie, secure))
}

func expiredCookie(name string, secure bool) *http.Cookie {
	ck := newCookie(name, "", 0, secure)
	ck.MaxAge = -1
	return ck
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
