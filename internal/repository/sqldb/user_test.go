package sqldb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/repository/sqldb"
)

func newPatient(email string) *domain.User {
	history := "none"
	return &domain.User{
		Name:           "Test User",
		Email:          email,
		PasswordHash:   "hashedpw",
		Role:           domain.RolePatient,
		DateOfBirth:    "1990-01-01",
		MedicalHistory: &history,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	user := newPatient("test@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newPatient("dup@example.com")); err != nil {
		t.Fatalf("Create user1: %v", err)
	}

	err := repo.Create(ctx, newPatient("DUP@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	user := newPatient("find@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "Find@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected ID %d, got %d", user.ID, got.ID)
	}
	if got.Role != domain.RolePatient {
		t.Fatalf("expected role patient, got %s", got.Role)
	}
	if got.MedicalHistory == nil || *got.MedicalHistory != "none" {
		t.Fatalf("expected medical history to round-trip, got %v", got.MedicalHistory)
	}
	if got.Specialty != nil {
		t.Fatalf("expected nil specialty, got %q", *got.Specialty)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	user := newPatient("update@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	specialty := "Cardiology"
	user.IsDoctor = true
	user.Specialty = &specialty
	user.Normalize()
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsDoctor || got.Role != domain.RoleDoctor {
		t.Fatalf("expected doctor role after update, got is_doctor=%v role=%s", got.IsDoctor, got.Role)
	}
	if got.MedicalHistory != nil {
		t.Fatal("expected medical history to be cleared for a doctor")
	}
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newPatient("taken@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := newPatient("other@example.com")
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	other.Email = "taken@example.com"
	if err := repo.Update(ctx, other); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_DeleteAndList(t *testing.T) {
	db := newTestDB(t)
	repo := sqldb.NewUserRepository(db)
	ctx := context.Background()

	a := newPatient("a@example.com")
	b := newPatient("b@example.com")
	for _, u := range []*domain.User{a, b} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 || users[0].ID != b.ID {
		t.Fatalf("expected only user %d, got %+v", b.ID, users)
	}
}
