package sqlite

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kdmarlow/intervue/internal/domain"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := newTestDB(t).Users()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        "ada@example.com",
		Name:         "Ada",
		PasswordHash: "salt:digest",
	}
	if err := repo.Create(t.Context(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set on create")
	}

	byID, err := repo.GetByID(t.Context(), user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != user.Email || byID.Name != user.Name || byID.PasswordHash != user.PasswordHash {
		t.Fatalf("got %+v, want fields of %+v", byID, user)
	}

	byEmail, err := repo.GetByEmail(t.Context(), "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("got ID %q, want %q", byEmail.ID, user.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := newTestDB(t).Users()

	first := &domain.User{ID: uuid.NewString(), Email: "dup@example.com", Name: "A", PasswordHash: "h"}
	if err := repo.Create(t.Context(), first); err != nil {
		t.Fatalf("create first user: %v", err)
	}

	second := &domain.User{ID: uuid.NewString(), Email: "dup@example.com", Name: "B", PasswordHash: "h"}
	err := repo.Create(t.Context(), second)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := newTestDB(t).Users()

	if _, err := repo.GetByID(t.Context(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get by id: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByEmail(t.Context(), "ghost@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get by email: got %v, want ErrNotFound", err)
	}
}
