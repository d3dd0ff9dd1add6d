package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/core/domain"
)

func TestDeriveAndVerifyToken(t *testing.T) {
	secret := newSecret()

	token := DeriveToken(secret)
	if !strings.Contains(token, tokenSeparator) {
		t.Fatalf("token missing salt separator: %q", token)
	}
	if !VerifyToken(secret, token) {
		t.Fatalf("token must verify against its own secret")
	}

	// Each derivation salts independently but all verify.
	other := DeriveToken(secret)
	if other == token {
		t.Fatalf("expected distinct salts per derivation")
	}
	if !VerifyToken(secret, other) {
		t.Fatalf("second token must also verify")
	}
}

func TestVerifyToken_Rejections(t *testing.T) {
	secret := newSecret()
	token := DeriveToken(secret)

	if VerifyToken(newSecret(), token) {
		t.Fatalf("token must not verify against a different secret")
	}
	for _, bad := range []string{"", "no-separator", ".", "salt.", ".sum", token + "x"} {
		if VerifyToken(secret, bad) {
			t.Fatalf("malformed token %q must not verify", bad)
		}
	}
}

func TestCSRF_SetsCookieAndContextToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CSRF(false)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("csrf: %v", err)
	}

	var secret string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CSRFCookie {
			secret = ck.Value
		}
	}
	if secret == "" {
		t.Fatalf("expected %s cookie on first contact", CSRFCookie)
	}
	if token := CSRFToken(c); !VerifyToken(secret, token) {
		t.Fatalf("context token %q does not verify against issued secret", token)
	}
}

func TestCSRF_ReusesExistingSecret(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "existing-secret"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CSRF(false)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("csrf: %v", err)
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CSRFCookie {
			t.Fatalf("must not reissue the secret cookie")
		}
	}
	if !VerifyToken("existing-secret", CSRFToken(c)) {
		t.Fatalf("token must derive from the existing secret")
	}
}

func verifyRequest(t *testing.T, method, path, secret, token string) error {
	t.Helper()
	e := echo.New()

	var body *strings.Reader
	if token != "" {
		body = strings.NewReader(url.Values{csrfFormField: {token}}.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if secret != "" {
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: secret})
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := VerifyCSRF()(func(c echo.Context) error { return nil })
	return handler(c)
}

func TestVerifyCSRF_ValidTokenPasses(t *testing.T) {
	secret := newSecret()
	if err := verifyRequest(t, http.MethodPost, "/users", secret, DeriveToken(secret)); err != nil {
		t.Fatalf("valid token must pass: %v", err)
	}
}

func TestVerifyCSRF_MissingToken(t *testing.T) {
	if err := verifyRequest(t, http.MethodPost, "/users", newSecret(), ""); !errors.Is(err, domain.ErrCSRFMissing) {
		t.Fatalf("expected ErrCSRFMissing, got %v", err)
	}
}

func TestVerifyCSRF_MissingSecretCookie(t *testing.T) {
	secret := newSecret()
	if err := verifyRequest(t, http.MethodPost, "/users", "", DeriveToken(secret)); !errors.Is(err, domain.ErrCSRFMissing) {
		t.Fatalf("expected ErrCSRFMissing, got %v", err)
	}
}

func TestVerifyCSRF_WrongSecret(t *testing.T) {
	token := DeriveToken(newSecret())
	if err := verifyRequest(t, http.MethodPost, "/users", newSecret(), token); !errors.Is(err, domain.ErrCSRFInvalid) {
		t.Fatalf("expected ErrCSRFInvalid, got %v", err)
	}
}

func TestVerifyCSRF_SkipsAPIAndSafeMethods(t *testing.T) {
	// API routes are exempt even without any token.
	if err := verifyRequest(t, http.MethodPost, "/api/users", "", ""); err != nil {
		t.Fatalf("/api must be exempt: %v", err)
	}
	// Safe methods are exempt on web routes.
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if err := verifyRequest(t, method, "/users", "", ""); err != nil {
			t.Fatalf("%s must be exempt: %v", method, err)
		}
	}
}

func TestVerifyCSRF_TokenFromQueryParam(t *testing.T) {
	secret := newSecret()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/3?_csrf="+url.QueryEscape(DeriveToken(secret)), nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: secret})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := VerifyCSRF()(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("query-param token must pass: %v", err)
	}
}
