package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/handler"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/repository/sqldb"
	"github.com/NagawaEsther/live-well/internal/service"
	"github.com/NagawaEsther/live-well/internal/telecom"
)

const (
	testJWTSecret     = "test-secret-for-handler-tests-32b"
	testAdminEmail    = "admin@livewell.test"
	testAdminPassword = "admin-password"
)

type fakeGateway struct {
	smsErr  error
	callErr error
}

func (g *fakeGateway) SendSMS(context.Context, string, string) (telecom.SMSResult, error) {
	if g.smsErr != nil {
		return telecom.SMSResult{}, g.smsErr
	}
	return telecom.SMSResult{Status: "Success", StatusCode: 101, MessageID: "ATXid_1"}, nil
}

func (g *fakeGateway) Call(context.Context, string, string) (telecom.CallResult, error) {
	if g.callErr != nil {
		return telecom.CallResult{}, g.callErr
	}
	return telecom.CallResult{Status: "Queued", SessionID: "ATVId_1"}, nil
}

type testApp struct {
	srv     *httptest.Server
	db      *sqldb.DB
	auth    *service.AuthService
	tokens  *service.TokenService
	metrics *metrics.Metrics
	gateway *fakeGateway
}

type appOption func(*handler.Deps)

func withLoginLimiter(tb *service.TokenBucket) appOption {
	return func(d *handler.Deps) { d.LoginLimiter = tb }
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqldb.New(sqldb.DialectSQLite, dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), service.NewBcryptHasher(4))
	if _, err := auth.SeedAdmin(context.Background(), "Admin", testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	tokens := service.NewTokenService(testJWTSecret, "livewell", time.Hour)
	gw := &fakeGateway{}
	m := metrics.New()

	deps := handler.Deps{
		DB:             db,
		Auth:           auth,
		Tokens:         tokens,
		Guard:          service.NewGuard(),
		Doctors:        service.NewResourceService[domain.Doctor]("doctor", db.Doctors()),
		Appointments:   service.NewResourceService[domain.Appointment]("appointment", db.Appointments()),
		MedicalRecords: service.NewMedicalRecordService(db.MedicalRecords()),
		Phones:         service.NewPhoneService(db.Phones()),
		SMSLogs:        service.NewResourceService[domain.SMSLog]("sms log", db.SMSLogs()),
		USSDSessions:   service.NewResourceService[domain.USSDSession]("ussd session", db.USSDSessions()),
		VoiceCalls:     service.NewResourceService[domain.VoiceCall]("voice call", db.VoiceCalls()),
		Telecom:        service.NewTelecomService(gw, db.SMSLogs(), db.VoiceCalls(), db.USSDSessions(), db.Doctors(), "+256800100100"),
		Metrics:        m,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)
	srv := httptest.NewServer(handler.Wrap(mux, handler.Options{CORSAllowedOrigins: []string{"*"}, Metrics: m}))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, db: db, auth: auth, tokens: tokens, metrics: m, gateway: gw}
}

// do sends a JSON request and returns the response with its body read.
func (a *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

type registeredUser struct {
	ID    int64
	Token string
}

// register signs up an account through the API and logs it in.
func (a *testApp) register(t *testing.T, email string, isDoctor bool) registeredUser {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]any{
		"name":          "Test " + email,
		"email":         email,
		"password":      "secret1",
		"date_of_birth": "1990-01-01",
		"is_doctor":     isDoctor,
	})
	expectStatus(t, resp, body, http.StatusCreated)
	return registeredUser{
		ID:    decode[struct{ User handler.UserDTO }](t, body).User.ID,
		Token: a.login(t, email, "secret1"),
	}
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	expectStatus(t, resp, body, http.StatusOK)
	return decode[struct{ Token string }](t, body).Token
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	return a.login(t, testAdminEmail, testAdminPassword)
}
