package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// SignupInput carries the fields a new account may set. Role is not among
// them: it is derived from IsDoctor.
type SignupInput struct {
	Name           string
	Email          string
	Password       string
	DateOfBirth    string
	ContactNumber  string
	Address        string
	IsDoctor       bool
	Specialty      *string
	MedicalHistory *string
}

// UpdateInput is a partial profile update; nil fields are left unchanged.
type UpdateInput struct {
	Name           *string
	Email          *string
	Password       *string
	DateOfBirth    *string
	ContactNumber  *string
	Address        *string
	IsDoctor       *bool
	Specialty      *string
	MedicalHistory *string
}

// AuthService handles signup, login and account maintenance.
type AuthService struct {
	users     domain.UserRepository
	hasher    Hasher
	dummyHash func() string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher Hasher) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		// Unknown emails still pay for one hash comparison.
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("livewell-unknown-account")
			return h
		}),
	}
}

// Signup registers a new patient or doctor account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateDate(in.DateOfBirth); err != nil {
		return nil, err
	}

	// The unique index has the final word; this only saves a hash.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		PasswordHash:   hash,
		DateOfBirth:    in.DateOfBirth,
		ContactNumber:  in.ContactNumber,
		Address:        in.Address,
		IsDoctor:       in.IsDoctor,
		Specialty:      in.Specialty,
		MedicalHistory: in.MedicalHistory,
	}
	user.Normalize()

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login returns the account matching the credentials. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves an account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// UpdateProfile applies a partial update. A new password is always hashed
// and a change of IsDoctor re-derives the role.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in UpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", domain.ErrInvalidInput)
		}
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, domain.ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("look up email: %w", err)
			}
		}
		user.Email = email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", domain.ErrInvalidInput)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.DateOfBirth != nil {
		if err := validateDate(*in.DateOfBirth); err != nil {
			return nil, err
		}
		user.DateOfBirth = *in.DateOfBirth
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.ContactNumber != nil {
		user.ContactNumber = *in.ContactNumber
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.IsDoctor != nil {
		user.IsDoctor = *in.IsDoctor
	}
	if in.Specialty != nil {
		user.Specialty = in.Specialty
	}
	if in.MedicalHistory != nil {
		user.MedicalHistory = in.MedicalHistory
	}
	user.Normalize()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SeedAdmin creates the administrator account unless the email is already
// registered. It reports whether an account was created. If the email
// belongs to an account that is not an admin it fails with ErrConflict.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", domain.ErrInvalidInput)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, requireAdmin(existing)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	admin.Normalize()

	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			existing, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return false, fmt.Errorf("look up admin: %w", err)
			}
			return false, requireAdmin(existing)
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func requireAdmin(u *domain.User) error {
	if u.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: %s is registered to a %s account", domain.ErrConflict, u.Email, u.Role)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrInvalidInput)
	}
	return nil
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return nil
}
