package telecom_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/telecom"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *telecom.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return telecom.NewClient(telecom.Config{
		Username: "sandbox",
		APIKey:   "test-key",
		SMSURL:   srv.URL,
		VoiceURL: srv.URL,
		SenderID: "LIVEWELL",
	})
}

func TestClient_SendSMS(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/version1/messaging" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("apiKey"); got != "test-key" {
			t.Errorf("expected apiKey header, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("username") != "sandbox" || r.Form.Get("to") != "+256700000001" ||
			r.Form.Get("message") != "Your appointment is confirmed" || r.Form.Get("from") != "LIVEWELL" {
			t.Errorf("unexpected form: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"SMSMessageData":{"Message":"Sent to 1/1 Total Cost: UGX 30","Recipients":[
			{"statusCode":101,"number":"+256700000001","status":"Success","cost":"UGX 30","messageId":"ATXid_1"}]}}`))
	})

	result, err := client.SendSMS(context.Background(), "+256700000001", "Your appointment is confirmed")
	if err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if result.Status != "Success" || result.MessageID != "ATXid_1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClient_SendSMS_RejectedRecipient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"SMSMessageData":{"Message":"Sent to 0/1","Recipients":[
			{"statusCode":403,"number":"+256700000001","status":"InvalidPhoneNumber","cost":"0","messageId":"None"}]}}`))
	})

	result, err := client.SendSMS(context.Background(), "+256700000001", "hello")
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
	if result.Status != "InvalidPhoneNumber" {
		t.Fatalf("expected the recipient status to be reported, got %q", result.Status)
	}
}

func TestClient_SendSMS_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The supplied authentication is invalid", http.StatusUnauthorized)
	})

	_, err := client.SendSMS(context.Background(), "+256700000001", "hello")
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestClient_Call(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("from") != "+256312000000" || r.Form.Get("to") != "+256700000002" {
			t.Errorf("unexpected form: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entries":[{"phoneNumber":"+256700000002","status":"Queued","sessionId":"ATVId_42"}],"errorMessage":"None"}`))
	})

	result, err := client.Call(context.Background(), "+256312000000", "+256700000002")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.SessionID != "ATVId_42" {
		t.Fatalf("expected session id ATVId_42, got %q", result.SessionID)
	}
}

func TestClient_Call_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entries":[],"errorMessage":"Invalid callerId"}`))
	})

	_, err := client.Call(context.Background(), "+1", "+2")
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}
