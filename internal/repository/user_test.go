package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/wellness2k25/wellness-go/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'users.email'"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrUserNotFound, false},
		{"other mysql error", &mysql.MySQLError{Number: 1045}, false},
		{"duplicate", dup, true},
		{"wrapped duplicate", fmt.Errorf("insert: %w", dup), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanUser(t *testing.T) {
	now := time.Now().UTC()
	u, err := scanUser(fakeRow{values: []any{int64(3), "Ana", "a@x.com", "hash", "admin", now, now}})
	if err != nil {
		t.Fatalf("scanUser() unexpected error: %v", err)
	}
	if u.ID != 3 || u.Name != "Ana" || u.Role != model.RoleAdmin {
		t.Errorf("scanUser() = %+v", u)
	}

	u, err = scanUser(fakeRow{values: []any{int64(4), "Bo", "b@x.com", "hash", "legacy", now, now}})
	if err != nil {
		t.Fatalf("scanUser() unexpected error: %v", err)
	}
	if u.Role != model.RoleStandard {
		t.Errorf("scanUser() unknown role mapped to %q, want %q", u.Role, model.RoleStandard)
	}

	if _, err := scanUser(fakeRow{err: sql.ErrNoRows}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("scanUser() error = %v, want ErrUserNotFound", err)
	}
}
