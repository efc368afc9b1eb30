package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NagawaEsther/live-well/internal/handler"
)

func TestHandleHealthz(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, resp, body, http.StatusOK)
	if got := decode[map[string]string](t, body)["status"]; got != "ok" {
		t.Fatalf("expected status=ok, got %s", got)
	}

	app.db.Close()
	resp, body = app.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, resp, body, http.StatusServiceUnavailable)
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a generated X-Request-ID")
	}

	req, _ := http.NewRequest(http.MethodGet, app.srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, _ = send(t, req)
	if got := resp.Header.Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected X-Request-ID to be echoed, got %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.do(t, http.MethodGet, "/", "", nil)
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if resp.Header.Get(h) == "" {
			t.Errorf("missing %s header", h)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodOptions, app.srv.URL+"/api/v1/users/login", nil)
	req.Header.Set("Origin", "https://app.livewell.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send the requested header names in lowercase.
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, _ := send(t, req)

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Access-Control-Allow-Origin *, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.EqualFold(got, "content-type") {
		t.Fatalf("expected Access-Control-Allow-Headers content-type, got %q", got)
	}
}

func TestCORSPreflight_UnlistedHeader(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodOptions, app.srv.URL+"/api/v1/users/login", nil)
	req.Header.Set("Origin", "https://app.livewell.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-unknown")
	resp, _ := send(t, req)

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Access-Control-Allow-Origin, got %q", got)
	}
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) CaptureError(_ *http.Request, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) Flush(time.Duration) {}

func TestRecover(t *testing.T) {
	reporter := &recordingReporter{}
	h := handler.Recover(reporter, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(reporter.errs) != 1 || !strings.Contains(reporter.errs[0].Error(), "boom") {
		t.Fatalf("expected the panic to be reported, got %v", reporter.errs)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "jane@x.io", false)

	resp, body := app.do(t, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, resp, body, http.StatusOK)

	for _, want := range []string{
		`livewell_http_requests_total{method="POST",route="POST /api/v1/users/register",status="201"} 1`,
		`livewell_auth_events_total{event="login",outcome="success"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
