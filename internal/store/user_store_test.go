package store

import (
	"context"
	"errors"
	"testing"

	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
)

func newUser(email string) *model.User {
	return &model.User{Name: "Alice", Email: email, Role: model.RoleUser}
}

func TestUserStore_CreateHashesPassword(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	user := newUser("a@b.com")
	if err := users.Create(ctx, user, "correct horse"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	stored, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Password == "correct horse" {
		t.Fatal("plaintext password was persisted")
	}
	if !CheckPassword("correct horse", stored.Password) {
		t.Fatal("stored hash does not verify against the plaintext")
	}
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	if err := users.Create(ctx, newUser("a@b.com"), "password123"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := users.Create(ctx, newUser("a@b.com"), "password456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserStore_AuthenticateFailuresIndistinguishable(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	if err := users.Create(ctx, newUser("a@b.com"), "password123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, unknownErr := users.Authenticate(ctx, "nobody@b.com", "password123")
	_, wrongErr := users.Authenticate(ctx, "a@b.com", "wrong")
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatal("the two failures must be indistinguishable")
	}
}

func TestUserStore_AuthenticateSuccess(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	created := newUser("a@b.com")
	if err := users.Create(ctx, created, "password123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := users.Authenticate(ctx, "a@b.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, got.ID)
	}
}

func TestUserStore_UpdatePassword(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	user := newUser("a@b.com")
	if err := users.Create(ctx, user, "oldpassword"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.UpdatePassword(ctx, user.ID, "newpassword"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	if _, err := users.Authenticate(ctx, "a@b.com", "oldpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := users.Authenticate(ctx, "a@b.com", "newpassword"); err != nil {
		t.Fatalf("new password: %v", err)
	}
}

func TestUserStore_UpdateIgnoresPasswordColumn(t *testing.T) {
	users := NewUserStore(testDB(t))
	ctx := context.Background()

	user := newUser("a@b.com")
	if err := users.Create(ctx, user, "password123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := users.Update(ctx, user.ID, map[string]interface{}{
		"name":     "Bob",
		"password": "sneaky",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bob" {
		t.Fatalf("expected name Bob, got %q", updated.Name)
	}
	if !CheckPassword("password123", updated.Password) {
		t.Fatal("password column must not be writable through Update")
	}
}

func TestUserStore_DeleteUnknown(t *testing.T) {
	users := NewUserStore(testDB(t))

	if err := users.Delete(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
