package users

import (
	"context"
	"errors"
	"testing"
)

func TestCreate_HashesPasswordAndDefaultsRole(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	u, err := svc.Create(context.Background(), CreateRequest{
		Email:    "Alice@Example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Role != RoleUser {
		t.Fatalf("expected default role user, got %q", u.Role)
	}
	if !u.IsActive {
		t.Fatalf("expected new users active")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Fatalf("expected hashed password, got %q", u.PasswordHash)
	}
	if u.ID == "" {
		t.Fatalf("expected assigned id")
	}
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Create(context.Background(), CreateRequest{Email: "a@x.com", Password: "p1", Name: "A"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// Case-insensitive: A@X.COM normalizes to the same address.
	_, err := svc.Create(context.Background(), CreateRequest{Email: "A@X.COM", Password: "p2", Name: "A2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	all, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one user after duplicate rejection, got %d", len(all))
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	cases := []CreateRequest{
		{Email: "", Password: "p", Name: "n"},
		{Email: "not-an-email", Password: "p", Name: "n"},
		{Email: "a@x.com", Password: "", Name: "n"},
		{Email: "a@x.com", Password: "p", Name: "  "},
		{Email: "a@x.com", Password: "p", Name: "n", Role: "superuser"},
	}
	for i, req := range cases {
		if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	u, err := svc.Create(context.Background(), CreateRequest{Email: "a@x.com", Password: "p", Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Alice Cooper"
	got, err := svc.Update(context.Background(), u.ID, Update{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != name {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
	if got.Email != u.Email || got.Role != u.Role || got.IsActive != u.IsActive {
		t.Fatalf("unspecified fields changed: %+v", got)
	}
}

func TestUpdate_RehashesPassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	u, err := svc.Create(context.Background(), CreateRequest{Email: "a@x.com", Password: "old", Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	newPass := "newpass"
	got, err := svc.Update(context.Background(), u.ID, Update{Password: &newPass})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.PasswordHash == u.PasswordHash || got.PasswordHash == newPass {
		t.Fatalf("expected fresh hash")
	}
}

func TestRemove_UnknownIDReturnsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Remove(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
