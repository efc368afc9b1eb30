package domain

import (
	"context"
	"time"
)

// Role is the authorization class of an account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// RoleFor derives the role of a non-admin account from its doctor flag.
func RoleFor(isDoctor bool) Role {
	if isDoctor {
		return RoleDoctor
	}
	return RolePatient
}

// DateLayout is the storage and wire format of User.DateOfBirth.
const DateLayout = "2006-01-02"

// User represents a registered account. Specialty is only kept for doctors
// and MedicalHistory only for patients.
type User struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	Role           Role      `db:"role"`
	DateOfBirth    string    `db:"date_of_birth"`
	ContactNumber  string    `db:"contact_number"`
	Address        string    `db:"address"`
	IsDoctor       bool      `db:"is_doctor"`
	Specialty      *string   `db:"specialty"`
	MedicalHistory *string   `db:"medical_history"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Normalize applies the doctor/patient field rules and derives the role.
// Admin accounts keep their role.
func (u *User) Normalize() {
	if u.Role != RoleAdmin {
		u.Role = RoleFor(u.IsDoctor)
	}
	if u.IsDoctor {
		u.MedicalHistory = nil
	} else {
		u.Specialty = nil
	}
}

// Claim returns the identity a token issued to u should carry.
func (u *User) Claim() IdentityClaim {
	return IdentityClaim{UserID: u.ID, Role: u.Role}
}

// IdentityClaim is the authenticated identity carried by a bearer token.
// It is rebuilt from the token on every request and never stored.
type IdentityClaim struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the claim belongs to an administrator.
func (c IdentityClaim) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// UserRepository defines persistence operations for users. Implementations
// must reject a second account with the same case-folded email with
// ErrDuplicateEmail, whatever the interleaving of callers.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
