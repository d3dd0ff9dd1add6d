package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/metrics"
	"github.com/adminhub/user-management/internal/api/middleware"
	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// WebAuthHandler serves the HTML login/logout pages. It shares the auth
// service with the JSON handler; only the presentation differs — redirects
// on success, re-rendered forms carrying the error and the submitted input
// on failure.
type WebAuthHandler struct {
	auth   ports.AuthService
	secure bool
}

func NewWebAuthHandler(auth ports.AuthService, secure bool) *WebAuthHandler {
	return &WebAuthHandler{auth: auth, secure: secure}
}

// LoginPage renders the login form.
func (h *WebAuthHandler) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, "auth", echo.Map{
		"Username": "",
	})
}

// Login handles the login form submission.
func (h *WebAuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return render(c, http.StatusBadRequest, "auth", echo.Map{
			"Error":    "invalid form submission",
			"Username": req.Username,
		})
	}
	if err := c.Validate(&req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return render(c, http.StatusBadRequest, "auth", echo.Map{
				"Errors":   ve.FieldMap(),
				"Username": req.Username,
			})
		}
		return err
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrAccessDenied):
			metrics.LoginsTotal.WithLabelValues("access_denied").Inc()
			status = http.StatusForbidden
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			status = http.StatusInternalServerError
		}
		return render(c, status, "auth", echo.Map{
			"Error":    err.Error(),
			"Username": req.Username,
		})
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	middleware.SetTokenCookies(c, pair, h.secure)
	return c.Redirect(http.StatusFound, "/users")
}

// Logout clears the token cookies and returns to the login page.
func (h *WebAuthHandler) Logout(c echo.Context) error {
	middleware.ClearTokenCookies(c, h.secure)
	return c.Redirect(http.StatusFound, "/login")
}

// render executes a view, always exposing the session user and the CSRF
// token alongside the handler's own data.
func render(c echo.Context, status int, view string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = middleware.CurrentUser(c)
	}
	data["CSRFToken"] = middleware.CSRFToken(c)
	return c.Render(status, view, data)
}
