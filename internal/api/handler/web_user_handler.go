package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/api/metrics"
	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// WebUserHandler serves the server-rendered user pages.
type WebUserHandler struct {
	users ports.UserService
}

func NewWebUserHandler(users ports.UserService) *WebUserHandler {
	return &WebUserHandler{users: users}
}

// userForm carries form state into the users-form view: either the stored
// user being edited, the submitted values being re-rendered after a failure,
// or nothing for a blank create form.
type userForm struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Gender    string
	BirthDate string
	Role      string
	IsEdit    bool
}

func formFromUser(u *domain.User) userForm {
	return userForm{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		BirthDate: u.BirthDate.Format(birthDateLayout),
		Role:      u.Role,
		IsEdit:    true,
	}
}

func formFromCreate(r createUserRequest) userForm {
	return userForm{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Role:      r.Role,
	}
}

func formFromUpdate(id int64, r updateUserRequest) userForm {
	return userForm{
		ID:        id,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Role:      r.Role,
		IsEdit:    true,
	}
}

// List renders the paginated, sortable users table. A flash error may arrive
// via the ?error query parameter (set by redirects).
func (h *WebUserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		q = listUsersQuery{}
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

	return render(c, http.StatusOK, "users", echo.Map{
		"Users":      result.Users,
		"Pagination": result.Pagination,
		"SortBy":     q.SortBy,
		"Order":      q.Order,
		"FlashError": c.QueryParam("error"),
	})
}

// CreatePage renders a blank user form.
func (h *WebUserHandler) CreatePage(c echo.Context) error {
	return render(c, http.StatusOK, "user_form", echo.Map{
		"Form": userForm{},
	})
}

// Create handles the create-user form submission.
func (h *WebUserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return render(c, http.StatusBadRequest, "user_form", echo.Map{
			"Error": "invalid form submission",
			"Form":  userForm{},
		})
	}
	if err := c.Validate(&req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return render(c, http.StatusBadRequest, "user_form", echo.Map{
				"Errors": ve.FieldMap(),
				"Form":   formFromCreate(req),
			})
		}
		return err
	}

	if _, err := h.users.Create(c.Request().Context(), req.toInput()); err != nil {
		return render(c, statusForFormError(err), "user_form", echo.Map{
			"Error": err.Error(),
			"Form":  formFromCreate(req),
		})
	}
	metrics.UsersCreatedTotal.Inc()

	return c.Redirect(http.StatusFound, "/users")
}

// Show renders a user's profile page.
func (h *WebUserHandler) Show(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	viewUser, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_profile", echo.Map{
		"ViewUser": viewUser,
	})
}

// EditPage renders the form pre-filled with the stored user.
func (h *WebUserHandler) EditPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	editUser, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_form", echo.Map{
		"Form": formFromUser(editUser),
	})
}

// Update handles the edit-user form submission.
func (h *WebUserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return render(c, http.StatusBadRequest, "user_form", echo.Map{
			"Error": "invalid form submission",
			"Form":  userForm{ID: id, IsEdit: true},
		})
	}
	if err := c.Validate(&req); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return render(c, http.StatusBadRequest, "user_form", echo.Map{
				"Errors": ve.FieldMap(),
				"Form":   formFromUpdate(id, req),
			})
		}
		return err
	}

	if _, err := h.users.Update(c.Request().Context(), id, req.toInput()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return render(c, statusForFormError(err), "user_form", echo.Map{
			"Error": err.Error(),
			"Form":  formFromUpdate(id, req),
		})
	}

	return c.Redirect(http.StatusFound, "/users")
}

// Delete handles the delete form submission. A self-delete attempt flashes
// the error on the users list instead of failing the page.
func (h *WebUserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	current, err := sessionUser(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id, current.ID); err != nil {
		if errors.Is(err, domain.ErrSelfDelete) {
			return c.Redirect(http.StatusFound, "/users?error="+url.QueryEscape(err.Error()))
		}
		return err
	}
	metrics.UsersDeletedTotal.Inc()

	return c.Redirect(http.StatusFound, "/users")
}

// Profile renders the current user's own profile.
func (h *WebUserHandler) Profile(c echo.Context) error {
	current, err := sessionUser(c)
	if err != nil {
		return err
	}

	viewUser, err := h.users.GetByID(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "user_profile", echo.Map{
		"ViewUser": viewUser,
	})
}

// statusForFormError picks the status for a form re-render; conflicts keep
// their 409, everything else degrades to 400.
func statusForFormError(err error) int {
	if errors.Is(err, domain.ErrUsernameExists) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
