package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminhub/user-management/internal/api/middleware"
	"github.com/adminhub/user-management/internal/core/domain"
)

// errorResponse is the canonical JSON error envelope.
type errorResponse struct {
	Message string `json:"message"`
}

// validationResponse carries field-level validation errors for API clients.
type validationResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

// NewHTTPErrorHandler returns the central echo.HTTPErrorHandler:
//   - Maps known domain errors to deterministic HTTP status codes.
//   - API requests get a JSON envelope; web requests get a redirect (to
//     /login on 401, otherwise back to the referrer with an encoded error).
//   - Logs unexpected errors internally without leaking details.
//
// No error is ever fatal to the process; every failure resolves to a
// response.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		isAPI := middleware.IsAPIRequest(c)

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			if isAPI {
				_ = c.JSON(http.StatusBadRequest, validationResponse{
					Message: "validation failed",
					Errors:  ve.Fields,
				})
				return
			}
			// Web forms normally re-render with their field errors before
			// this point; anything that escapes goes back to the referrer.
			redirectWithError(c, ve.Error())
			return
		}

		code, msg := resolveError(err, log, c)

		if isAPI {
			_ = c.JSON(code, errorResponse{Message: msg})
			return
		}

		switch {
		case code == http.StatusUnauthorized:
			_ = c.Redirect(http.StatusFound, "/login")
		case errors.Is(err, domain.ErrCSRFMissing) || errors.Is(err, domain.ErrCSRFInvalid):
			redirectWithError(c, "CSRF token validation failed. Please try again.")
		default:
			redirectWithError(c, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrCSRFMissing),
		errors.Is(err, domain.ErrCSRFInvalid):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrSelfDelete):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUsernameExists):
		return http.StatusConflict, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// redirectWithError sends the browser back to the referrer, or to the users
// list with the message encoded in the query string.
func redirectWithError(c echo.Context, msg string) {
	target := c.Request().Referer()
	if target == "" {
		target = "/users?error=" + url.QueryEscape(msg)
	}
	_ = c.Redirect(http.StatusFound, target)
}
