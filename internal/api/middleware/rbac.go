package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/core/domain"
)

// RequireAdmin enforces the admin role on the user attached by Session.
// Must be chained after Session.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthorized
			}
			if !user.IsAdmin() {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
