package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/webhook-hub/internal/apperror"
	"github.com/sakif/webhook-hub/internal/model"
)

// newTestDB opens a fresh in-memory database per test. t.Cleanup closes it
// even when subtests fail.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with a placeholder hash.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "bob@example.com")

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("CreateUser() did not set timestamps")
	}
}

func TestUserCreate_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "bob@example.com")

	// The storage-layer unique constraint is the backstop for concurrent
	// registrations; it must surface as the same Conflict as the
	// service-layer duplicate check.
	dup := &model.User{Email: "bob@example.com", PasswordHash: "$2a$04$other"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() duplicate email error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "bob@example.com")

	found, err := db.GetUserByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetUserByEmail() did not return the stored hash")
	}
}

func TestUserGetByEmail_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "bob@example.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "bob@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "bob@example.com")
	}
}

func TestUserGetByID_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "bob@example.com")

	if err := db.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	_, err := db.GetUserByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_Missing(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteUser(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("DeleteUser() error = %v, want ErrNotFound", err)
	}
}
