package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

// stubAuthService accepts exactly one credential pair and one refresh token.
type stubAuthService struct {
	pair ports.TokenPair
	user *domain.User
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{
		pair: ports.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
		user: &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin},
	}
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (ports.TokenPair, error) {
	if username != "admin" || password != "password123" {
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}
	return s.pair, nil
}

func (s *stubAuthService) GetUserFromToken(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken != s.pair.AccessToken {
		return nil, domain.ErrTokenInvalid
	}
	return s.user, nil
}

func (s *stubAuthService) Refresh(refreshToken string) (ports.TokenPair, error) {
	if refreshToken != s.pair.RefreshToken {
		return ports.TokenPair{}, domain.ErrTokenInvalid
	}
	return ports.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

// stubUserService is an in-memory ports.UserService without hashing or
// whitelisting; handler tests only exercise the HTTP surface.
type stubUserService struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserService(seed ...*domain.User) *stubUserService {
	s := &stubUserService{users: make(map[int64]*domain.User), nextID: 1}
	for _, u := range seed {
		cp := *u
		s.users[u.ID] = &cp
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *stubUserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	return &ports.ListUsersResult{
		Users: users,
		Pagination: ports.Pagination{
			Total:      int64(len(users)),
			Page:       1,
			Limit:      10,
			TotalPages: 1,
		},
	}, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == input.Username {
			return nil, domain.ErrUsernameExists
		}
	}
	u := &domain.User{
		ID:           s.nextID,
		Username:     input.Username,
		PasswordHash: "hashed:" + input.Password,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Gender:       input.Gender,
		BirthDate:    input.BirthDate,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	s.nextID++
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *stubUserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Username = input.Username
	u.FirstName = input.FirstName
	u.LastName = input.LastName
	u.Gender = input.Gender
	u.BirthDate = input.BirthDate
	if input.Role != "" {
		u.Role = input.Role
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserService) Delete(ctx context.Context, id, currentUserID int64) error {
	if id == currentUserID {
		return domain.ErrSelfDelete
	}
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// jsonRequest builds an echo context with the validator wired, mirroring how
// the router configures it.
func jsonRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func responseCookies(rec *httptest.ResponseRecorder) map[string]string {
	out := make(map[string]string)
	for _, ck := range rec.Result().Cookies() {
		out[ck.Name] = ck.Value
	}
	return out
}
