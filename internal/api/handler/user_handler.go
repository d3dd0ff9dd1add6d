package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/metrics"
	"github.com/adminhub/user-management/internal/core/ports"
)

// UserHandler serves the JSON user CRUD endpoints.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns one page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Param        sortBy  query     string  false  "Sort column: username, first_name, last_name, birth_date, created_at"
// @Param        order   query     string  false  "ASC or DESC"
// @Success      200     {object}  listUsersResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.users.List(c.Request().Context(), ports.ListUsersInput{
		Page:   q.Page,
		Limit:  q.Limit,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Users:      result.Users,
		Pagination: result.Pagination,
	})
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create registers a new user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  mutationResponse
// @Failure      400   {object}  validationResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, mutationResponse{
		Message: "User created successfully",
		Data:    user,
	})
}

// Update mutates an existing user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "User details"
// @Success      200   {object}  mutationResponse
// @Failure      400   {object}  validationResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mutationResponse{
		Message: "User updated successfully",
		Data:    user,
	})
}

// Delete removes a user. Deleting your own account is forbidden.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	current, err := sessionUser(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id, current.ID); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
