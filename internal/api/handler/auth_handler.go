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

// AuthHandler serves the JSON authentication endpoints.
type AuthHandler struct {
	auth   ports.AuthService
	secure bool
}

func NewAuthHandler(auth ports.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, secure: secure}
}

// Login authenticates an admin and returns a fresh token pair. The tokens
// are also written as httpOnly cookies for browser clients.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.TokenPair
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrAccessDenied):
			metrics.LoginsTotal.WithLabelValues("access_denied").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	middleware.SetTokenCookies(c, pair, h.secure)
	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates the token pair using the refresh token cookie.
//
// @Summary      Refresh token pair
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.TokenPair
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/refresh [get]
func (h *AuthHandler) Refresh(c echo.Context) error {
	ck, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || ck.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token required")
	}

	pair, err := h.auth.Refresh(ck.Value)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		middleware.ClearTokenCookies(c, h.secure)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()

	middleware.SetTokenCookies(c, pair, h.secure)
	return c.JSON(http.StatusOK, pair)
}

// Logout clears both token cookies. Stateless tokens cannot be revoked; the
// browser simply forgets them.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearTokenCookies(c, h.secure)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}
