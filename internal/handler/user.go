package handler

import (
	"net/http"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/service"
)

// UserHandler serves account management and the per-user sub-resources.
type UserHandler struct {
	auth    *service.AuthService
	phones  *service.PhoneService
	records *service.MedicalRecordService
	errs    errorWriter
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService, phones *service.PhoneService, records *service.MedicalRecordService, errs errorWriter) *UserHandler {
	return &UserHandler{auth: auth, phones: phones, records: records, errs: errs}
}

// HandleList returns every account.
// GET /api/v1/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// HandleGet returns one account.
// GET /api/v1/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	user, err := h.auth.GetUser(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleUpdate applies a partial profile update. Fields absent from the
// body are left unchanged.
// PUT /api/v1/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var req updateUserRequest
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), id, service.UpdateInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		DateOfBirth:    req.DateOfBirth,
		ContactNumber:  req.ContactNumber,
		Address:        req.Address,
		IsDoctor:       req.IsDoctor,
		Specialty:      req.Specialty,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    toUserDTO(user),
	})
}

// HandleDelete removes an account.
// DELETE /api/v1/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.auth.DeleteUser(r.Context(), id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// HandleListPhones returns the phones registered to the account.
// GET /api/v1/users/{id}/phones
func (h *UserHandler) HandleListPhones(w http.ResponseWriter, r *http.Request) {
	id, err := h.existingUser(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	phones, err := h.phones.ListForUser(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(phones))
}

// HandleCreatePhone registers a phone to the account named in the path.
// POST /api/v1/users/{id}/phones
func (h *UserHandler) HandleCreatePhone(w http.ResponseWriter, r *http.Request) {
	id, err := h.existingUser(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var phone domain.Phone
	if err := readJSON(w, r, &phone); err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.phones.CreateForUser(r.Context(), id, &phone); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, phone)
}

// HandleListMedicalRecords returns the records where the account is the
// patient.
// GET /api/v1/users/{id}/medical-records
func (h *UserHandler) HandleListMedicalRecords(w http.ResponseWriter, r *http.Request) {
	id, err := h.existingUser(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	records, err := h.records.ListForPatient(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// existingUser resolves the {id} path parameter to an account that exists,
// so sub-resource routes 404 on unknown users instead of answering [].
func (h *UserHandler) existingUser(r *http.Request) (int64, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, err
	}
	if _, err := h.auth.GetUser(r.Context(), id); err != nil {
		return 0, err
	}
	return id, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
