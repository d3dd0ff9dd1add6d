package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/middleware"
	"github.com/adminhub/user-management/internal/core/domain"
)

// sessionUser returns the user attached by the session middleware. Routes
// reaching a handler are always behind the middleware, so absence means a
// wiring bug; fail closed with Unauthorized.
func sessionUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// pathID parses the numeric :id path parameter. A non-numeric id can never
// reference a user, so it resolves to not-found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.ErrUserNotFound
	}
	return id, nil
}
