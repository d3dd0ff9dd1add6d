package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/metrics"
	"github.com/adminhub/user-management/internal/core/domain"
)

// ContextCSRFKey is where CSRF exposes the per-request token for forms.
const ContextCSRFKey = "csrfToken"

const (
	csrfCookieTTL  = 24 * time.Hour
	csrfSecretLen  = 18
	csrfSaltLen    = 8
	csrfFormField  = "_csrf"
	tokenSeparator = "."
)

// CSRF implements the generate half of the double-submit pattern: ensure a
// secret cookie exists (creating one on first contact) and derive a
// per-request token from it for templates to embed. Runs on every request.
func CSRF(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := cookieValue(c, CSRFCookie)
			if secret == "" {
				secret = newSecret()
				c.SetCookie(newCookie(CSRFCookie, secret, csrfCookieTTL, secure))
			}
			c.Set(ContextCSRFKey, DeriveToken(secret))
			return next(c)
		}
	}
}

// VerifyCSRF implements the verify half: state-changing web requests must
// echo a token derived from the secret cookie. API routes carry their own
// token-based auth and are exempt, as are safe methods.
func VerifyCSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAPIRequest(c) {
				return next(c)
			}
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			secret := cookieValue(c, CSRFCookie)
			token := c.FormValue(csrfFormField)
			if token == "" {
				token = c.QueryParam(csrfFormField)
			}

			if secret == "" || token == "" {
				metrics.CSRFRejectedTotal.Inc()
				return domain.ErrCSRFMissing
			}
			if !VerifyToken(secret, token) {
				metrics.CSRFRejectedTotal.Inc()
				return domain.ErrCSRFInvalid
			}
			return next(c)
		}
	}
}

// CSRFToken returns the token derived for this request, for embedding in
// rendered forms.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(ContextCSRFKey).(string)
	return token
}

// DeriveToken builds a one-time token from the session secret: a random
// salt joined with HMAC-SHA256(secret, salt). Tokens from one secret never
// verify against another.
func DeriveToken(secret string) string {
	salt := randomToken(csrfSaltLen)
	return salt + tokenSeparator + mac(secret, salt)
}

// VerifyToken checks a client-submitted token against the secret using a
// constant-time comparison.
func VerifyToken(secret, token string) bool {
	salt, sum, ok := strings.Cut(token, tokenSeparator)
	if !ok || salt == "" || sum == "" {
		return false
	}
	return hmac.Equal([]byte(mac(secret, salt)), []byte(sum))
}

func mac(secret, salt string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func newSecret() string {
	return randomToken(csrfSecretLen)
}

func randomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
