package handler

import (
	"strings"
	"time"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// birthDateLayout is the wire format for birth dates in both JSON bodies and
// HTML form fields.
const birthDateLayout = "2006-01-02"

// messageResponse is the standard envelope for operations without a payload.
type messageResponse struct {
	Message string `json:"message"`
}

// dataResponse wraps a single user.
type dataResponse struct {
	Data *domain.User `json:"data"`
}

// mutationResponse wraps a mutated user with a confirmation message.
type mutationResponse struct {
	Message string       `json:"message"`
	Data    *domain.User `json:"data"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type createUserRequest struct {
	Username  string `json:"username"   form:"username"   validate:"required,min=3,max=50"`
	Password  string `json:"password"   form:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"required"`
	Gender    string `json:"gender"     form:"gender"     validate:"required,oneof=male female other"`
	BirthDate string `json:"birth_date" form:"birth_date" validate:"required,datetime=2006-01-02"`
	Role      string `json:"role"       form:"role"       validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Username    string `json:"username"    form:"username"    validate:"required,min=3,max=50"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"omitempty,min=6"`
	FirstName   string `json:"first_name"  form:"first_name"  validate:"required"`
	LastName    string `json:"last_name"   form:"last_name"   validate:"required"`
	Gender      string `json:"gender"      form:"gender"      validate:"required,oneof=male female other"`
	BirthDate   string `json:"birth_date"  form:"birth_date"  validate:"required,datetime=2006-01-02"`
	Role        string `json:"role"        form:"role"        validate:"omitempty,oneof=user admin"`
}

type listUsersQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	SortBy string `query:"sortBy"`
	Order  string `query:"order"`
}

type listUsersResponse struct {
	Users      []domain.User    `json:"users"`
	Pagination ports.Pagination `json:"pagination"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	birthDate, _ := time.Parse(birthDateLayout, r.BirthDate)
	return ports.CreateUserInput{
		Username:  strings.TrimSpace(r.Username),
		Password:  r.Password,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Gender:    r.Gender,
		BirthDate: birthDate,
		Role:      r.Role,
	}
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	birthDate, _ := time.Parse(birthDateLayout, r.BirthDate)
	return ports.UpdateUserInput{
		Username:    strings.TrimSpace(r.Username),
		NewPassword: r.NewPassword,
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Gender:      r.Gender,
		BirthDate:   birthDate,
		Role:        r.Role,
	}
}
