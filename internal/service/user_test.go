package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wellness2k25/wellness-go/internal/model"
)

func seedUsers(t *testing.T, users *memoryUsers, names ...string) {
	t.Helper()
	for _, n := range names {
		u := &model.User{Name: n, Email: n + "@x.com", AuthHash: "h", Role: model.RoleStandard}
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}
}

func TestUserService_List(t *testing.T) {
	users := newMemoryUsers()
	seedUsers(t, users, "ana", "bo")
	svc := NewUserService(users)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "ana" || got[1].Name != "bo" {
		t.Errorf("List() = %+v", got)
	}
}

func TestUserService_ListEmpty(t *testing.T) {
	got, err := NewUserService(newMemoryUsers()).List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", got)
	}
}

func TestUserService_SetRole(t *testing.T) {
	users := newMemoryUsers()
	seedUsers(t, users, "ana")
	svc := NewUserService(users)
	ctx := context.Background()

	got, err := svc.SetRole(ctx, 1, "admin")
	if err != nil {
		t.Fatalf("SetRole() unexpected error: %v", err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("SetRole() role = %q, want admin", got.Role)
	}

	if _, err := svc.SetRole(ctx, 1, "owner"); !errors.Is(err, model.ErrUnknownRole) {
		t.Errorf("SetRole(owner) error = %v, want ErrUnknownRole", err)
	}
	if _, err := svc.SetRole(ctx, 42, "admin"); err != ErrUserNotFound {
		t.Errorf("SetRole(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserService_GetNotFound(t *testing.T) {
	if _, err := NewUserService(newMemoryUsers()).Get(context.Background(), 5); err != ErrUserNotFound {
		t.Errorf("Get() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserService_CurrentRoleFollowsUpdates(t *testing.T) {
	users := newMemoryUsers()
	seedUsers(t, users, "ana")
	svc := NewUserService(users)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, 1, "admin"); err != nil {
		t.Fatalf("SetRole() unexpected error: %v", err)
	}
	if role, err := svc.CurrentRole(ctx, 1); err != nil || role != model.RoleAdmin {
		t.Fatalf("CurrentRole() = %q, %v; want admin", role, err)
	}

	if _, err := svc.SetRole(ctx, 1, "standard"); err != nil {
		t.Fatalf("SetRole() unexpected error: %v", err)
	}
	if role, err := svc.CurrentRole(ctx, 1); err != nil || role != model.RoleStandard {
		t.Errorf("CurrentRole() = %q, %v; want standard", role, err)
	}

	if _, err := svc.CurrentRole(ctx, 42); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("CurrentRole(missing) error = %v, want ErrUserNotFound", err)
	}
}
