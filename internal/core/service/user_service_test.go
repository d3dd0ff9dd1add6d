package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/user-management/internal/core/domain"
	"github.com/adminhub/user-management/internal/core/ports"
)

func createInput(username string) ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:  username,
		Password:  "secret1",
		FirstName: "Test",
		LastName:  "User",
		Gender:    domain.GenderFemale,
		BirthDate: time.Date(1991, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserService_Create_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	user, err := svc.Create(context.Background(), createInput("alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	// The serialized form must never contain the password.
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Fatalf("serialized user leaks password field: %s", raw)
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	if _, err := svc.Create(context.Background(), createInput("bob")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), createInput("bob")); !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	created, _ := svc.Create(context.Background(), createInput("carol"))
	oldHash := created.PasswordHash

	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{
		Username:    "carol",
		NewPassword: "fresh-password",
		FirstName:   "Caroline",
		LastName:    "User",
		Gender:      domain.GenderFemale,
		BirthDate:   created.BirthDate,
		Role:        domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Caroline" || updated.Role != domain.RoleAdmin {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.PasswordHash == oldHash {
		t.Fatalf("newPassword did not replace the hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("fresh-password")); err != nil {
		t.Fatalf("new hash mismatch: %v", err)
	}
}

func TestUserService_Update_UsernameConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	_, _ = svc.Create(context.Background(), createInput("taken"))
	other, _ := svc.Create(context.Background(), createInput("free"))

	_, err := svc.Update(context.Background(), other.ID, ports.UpdateUserInput{
		Username:  "taken",
		FirstName: "Test",
		LastName:  "User",
		Gender:    domain.GenderFemale,
		BirthDate: other.BirthDate,
	})
	if !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nil, bcrypt.MinCost, zerolog.Nop())

	_, err := svc.Update(context.Background(), 999, ports.UpdateUserInput{Username: "nobody"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	victim, _ := svc.Create(context.Background(), createInput("victim"))
	actor, _ := svc.Create(context.Background(), createInput("actor"))

	if err := svc.Delete(context.Background(), victim.ID, actor.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), victim.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user still findable: %v", err)
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	actor, _ := svc.Create(context.Background(), createInput("actor"))

	if err := svc.Delete(context.Background(), actor.ID, actor.ID); !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), actor.ID); err != nil {
		t.Fatalf("self-delete must not remove the account: %v", err)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nil, bcrypt.MinCost, zerolog.Nop())

	if err := svc.Delete(context.Background(), 42, 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_PaginationAndWhitelist(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, bcrypt.MinCost, zerolog.Nop())

	for _, name := range []string{"u1", "u2", "u3"} {
		if _, err := svc.Create(context.Background(), createInput(name)); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	result, err := svc.List(context.Background(), ports.ListUsersInput{
		Page: 2, Limit: 10, SortBy: "username", Order: "asc",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastList.Offset != 10 || repo.lastList.Limit != 10 {
		t.Fatalf("page 2 limit 10 must query offset 10: %+v", repo.lastList)
	}
	if repo.lastList.SortBy != "username" || repo.lastList.Order != "ASC" {
		t.Fatalf("sort not normalized: %+v", repo.lastList)
	}
	if result.Pagination.Total != 3 || result.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", result.Pagination)
	}

	// Unknown sort field and order fall back to created_at DESC.
	if _, err := svc.List(context.Background(), ports.ListUsersInput{
		SortBy: "password_hash", Order: "SIDEWAYS",
	}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastList.SortBy != "created_at" || repo.lastList.Order != "DESC" {
		t.Fatalf("expected created_at DESC fallback, got %+v", repo.lastList)
	}

	// Defaults for page and limit.
	if _, err := svc.List(context.Background(), ports.ListUsersInput{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastList.Offset != 0 || repo.lastList.Limit != 10 {
		t.Fatalf("expected default page window, got %+v", repo.lastList)
	}
}
