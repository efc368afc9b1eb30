package handler

import (
	"time"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the service.
type UserDTO struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	DateOfBirth    string  `json:"date_of_birth"`
	ContactNumber  string  `json:"contact_number"`
	Address        string  `json:"address"`
	IsDoctor       bool    `json:"is_doctor"`
	Specialty      *string `json:"specialty"`
	MedicalHistory *string `json:"medical_history"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		DateOfBirth:    u.DateOfBirth,
		ContactNumber:  u.ContactNumber,
		Address:        u.Address,
		IsDoctor:       u.IsDoctor,
		Specialty:      u.Specialty,
		MedicalHistory: u.MedicalHistory,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// signupRequest is the body of POST /api/v1/users/register. There is no role
// field; a client-sent "role" is ignored.
type signupRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	DateOfBirth    string  `json:"date_of_birth"`
	ContactNumber  string  `json:"contact_number"`
	Address        string  `json:"address"`
	IsDoctor       bool    `json:"is_doctor"`
	Specialty      *string `json:"specialty"`
	MedicalHistory *string `json:"medical_history"`
}

type updateUserRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	DateOfBirth    *string `json:"date_of_birth"`
	ContactNumber  *string `json:"contact_number"`
	Address        *string `json:"address"`
	IsDoctor       *bool   `json:"is_doctor"`
	Specialty      *string `json:"specialty"`
	MedicalHistory *string `json:"medical_history"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresIn int64   `json:"expires_in"`
	User      UserDTO `json:"user"`
}
