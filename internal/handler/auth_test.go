package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/NagawaEsther/live-well/internal/handler"
	"github.com/NagawaEsther/live-well/internal/service"
)

func TestRegisterLoginMe(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":            "Jane",
		"email":           "Jane@X.io",
		"password":        "secret1",
		"date_of_birth":   "1990-01-01",
		"contact_number":  "123",
		"address":         "A St",
		"is_doctor":       false,
		"medical_history": "asthma",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	created := decode[struct {
		Message string
		User    handler.UserDTO
	}](t, body)
	if created.Message != "User registered successfully" {
		t.Fatalf("unexpected message %q", created.Message)
	}
	if created.User.Email != "jane@x.io" || created.User.Role != "patient" {
		t.Fatalf("unexpected user: %+v", created.User)
	}
	if strings.Contains(string(body), "password") {
		t.Fatalf("response leaks password data: %s", body)
	}

	resp, body = app.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": "jane@x.io", "password": "secret1",
	})
	expectStatus(t, resp, body, http.StatusOK)
	login := decode[struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int64  `json:"expires_in"`
	}](t, body)
	if login.Token == "" || login.TokenType != "Bearer" || login.ExpiresIn != 3600 {
		t.Fatalf("unexpected login response: %s", body)
	}

	resp, body = app.do(t, http.MethodGet, "/api/v1/users/me", login.Token, nil)
	expectStatus(t, resp, body, http.StatusOK)
	me := decode[struct{ User handler.UserDTO }](t, body)
	if me.User.ID != created.User.ID {
		t.Fatalf("expected user %d, got %d", created.User.ID, me.User.ID)
	}
	if me.User.MedicalHistory == nil || *me.User.MedicalHistory != "asthma" {
		t.Fatalf("expected medical history to round-trip, got %v", me.User.MedicalHistory)
	}
}

func TestRegister_DoctorRole(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":      "Dr Okello",
		"email":     "okello@x.io",
		"password":  "secret1",
		"is_doctor": true,
		"specialty": "Cardiology",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	user := decode[struct{ User handler.UserDTO }](t, body).User
	if user.Role != "doctor" || user.Specialty == nil || *user.Specialty != "Cardiology" {
		t.Fatalf("unexpected doctor: %+v", user)
	}
}

func TestRegister_RoleFieldIgnored(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"email":    "sneaky@x.io",
		"password": "secret1",
		"role":     "admin",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	if role := decode[struct{ User handler.UserDTO }](t, body).User.Role; role != "patient" {
		t.Fatalf("expected role patient, got %q", role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "dup@x.io", false)

	resp, body := app.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"email": "DUP@x.io", "password": "another1",
	})
	expectStatus(t, resp, body, http.StatusConflict)
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing email", map[string]any{"password": "secret1"}},
		{"missing password", map[string]any{"email": "a@x.io"}},
		{"bad email", map[string]any{"email": "not-an-email", "password": "secret1"}},
		{"bad date", map[string]any{"email": "a@x.io", "password": "secret1", "date_of_birth": "01/01/1990"}},
		{"password too long", map[string]any{"email": "a@x.io", "password": strings.Repeat("p", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.do(t, http.MethodPost, "/api/v1/users/register", "", tt.body)
			expectStatus(t, resp, body, http.StatusBadRequest)
			if decode[map[string]string](t, body)["error"] == "" {
				t.Fatalf("expected an error message, got %s", body)
			}
		})
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodPost, app.srv.URL+"/api/v1/users/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, body := send(t, req)
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "jane@x.io", false)

	for _, creds := range []map[string]string{
		{"email": "jane@x.io", "password": "wrong"},
		{"email": "ghost@x.io", "password": "secret1"},
	} {
		resp, body := app.do(t, http.MethodPost, "/api/v1/users/login", "", creds)
		expectStatus(t, resp, body, http.StatusUnauthorized)
		if msg := decode[map[string]string](t, body)["error"]; msg != "Invalid email or password." {
			t.Fatalf("unexpected error message %q", msg)
		}
	}
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := service.NewTokenBucket(0.001, 2)
	t.Cleanup(limiter.Stop)
	app := newTestApp(t, withLoginLimiter(limiter))

	creds := map[string]string{"email": "nobody@x.io", "password": "wrong"}
	for range 2 {
		resp, body := app.do(t, http.MethodPost, "/api/v1/users/login", "", creds)
		expectStatus(t, resp, body, http.StatusUnauthorized)
	}

	resp, body := app.do(t, http.MethodPost, "/api/v1/users/login", "", creds)
	expectStatus(t, resp, body, http.StatusTooManyRequests)
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
}

func TestProtected_EchoesIdentity(t *testing.T) {
	app := newTestApp(t)
	user := app.register(t, "jane@x.io", false)

	resp, body := app.do(t, http.MethodGet, "/protected", user.Token, nil)
	expectStatus(t, resp, body, http.StatusOK)

	got := decode[struct {
		LoggedInAs struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"logged_in_as"`
	}](t, body)
	if got.LoggedInAs.ID != user.ID || got.LoggedInAs.Role != "patient" {
		t.Fatalf("unexpected identity: %s", body)
	}
}
