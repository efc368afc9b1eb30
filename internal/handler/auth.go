package handler

import (
	"errors"
	"net/http"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/service"
)

// AuthHandler handles signup, login and the caller's own profile.
type AuthHandler struct {
	auth    *service.AuthService
	tokens  *service.TokenService
	metrics *metrics.Metrics
	errs    errorWriter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, m *metrics.Metrics, errs errorWriter) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, metrics: m, errs: errs}
}

// HandleRegister processes a JSON signup request.
// POST /api/v1/users/register
// Response: 201 {"message": "...", "user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
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
		h.count("signup", outcomeOf(err))
		h.errs.write(w, r, err)
		return
	}
	h.count("signup", "success")

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    toUserDTO(user),
	})
}

// HandleLogin exchanges credentials for a bearer token.
// POST /api/v1/users/login
// Response: 200 {"token": "...", "token_type": "Bearer", "expires_in": 3600, "user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.count("login", outcomeOf(err))
		h.errs.write(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.Claim())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.count("login", "success")

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		User:      toUserDTO(user),
	})
}

// HandleMe returns the account the token belongs to.
// GET /api/v1/users/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claim := ClaimFromContext(r.Context())
	if claim == nil {
		h.errs.write(w, r, domain.ErrUnauthenticated)
		return
	}

	user, err := h.auth.GetUser(r.Context(), claim.UserID)
	if err != nil {
		// The account was deleted after the token was issued.
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnauthenticated
		}
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleProtected echoes the identity carried by the token.
// GET /protected
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	claim := ClaimFromContext(r.Context())
	if claim == nil {
		h.errs.write(w, r, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logged_in_as": map[string]any{"id": claim.UserID, "role": claim.Role},
	})
}

func (h *AuthHandler) count(event, outcome string) {
	if h.metrics != nil {
		h.metrics.Auth(event, outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	}
	return "error"
}
