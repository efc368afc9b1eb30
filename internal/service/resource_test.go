package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/service"
)

func TestResourceService_CreateValidates(t *testing.T) {
	db := newTestDB(t)
	doctors := service.NewResourceService[domain.Doctor]("doctor", db.Doctors())

	err := doctors.Create(context.Background(), &domain.Doctor{Name: "No Email"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResourceService_UpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	appointments := service.NewResourceService[domain.Appointment]("appointment", db.Appointments())
	ctx := context.Background()

	appt := &domain.Appointment{
		PatientName:     "Amina",
		DoctorName:      "Dr. Okello",
		AppointmentTime: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Notes:           "bring results",
	}
	if err := appointments.Create(ctx, appt); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := appointments.Update(ctx, appt.ID, func(a *domain.Appointment) error {
		return json.Unmarshal([]byte(`{"id": 999, "status": "completed"}`), a)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != appt.ID {
		t.Fatalf("expected id to stay %d, got %d", appt.ID, updated.ID)
	}
	if updated.Status != domain.AppointmentCompleted || updated.Notes != "bring results" {
		t.Fatalf("expected only status to change, got %+v", updated)
	}

	_, err = appointments.Update(ctx, appt.ID, func(a *domain.Appointment) error {
		a.Status = "postponed"
		return nil
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestResourceService_IgnoresClientTimestamps(t *testing.T) {
	db := newTestDB(t)
	logs := service.NewResourceService[domain.SMSLog]("sms log", db.SMSLogs())
	ctx := context.Background()
	forged := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Now().Add(-time.Minute)

	entry := &domain.SMSLog{PhoneNumber: "+256700000001", Message: "hi", Status: "Success", SentAt: forged}
	if err := logs.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.SentAt.Before(before) {
		t.Fatalf("expected sent_at to be stamped by the server, got %v", entry.SentAt)
	}

	stored, err := logs.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	updated, err := logs.Update(ctx, entry.ID, func(l *domain.SMSLog) error {
		return json.Unmarshal([]byte(`{"status": "Failed", "sent_at": "2001-01-01T00:00:00Z"}`), l)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != "Failed" {
		t.Fatalf("expected status to change, got %q", updated.Status)
	}
	if !updated.SentAt.Equal(stored.SentAt) {
		t.Fatalf("expected sent_at to stay %v, got %v", stored.SentAt, updated.SentAt)
	}
}

func TestResourceService_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	logs := service.NewResourceService[domain.SMSLog]("sms log", db.SMSLogs())

	_, err := logs.Update(context.Background(), 404, func(*domain.SMSLog) error { return nil })
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPhoneService_CreateForUser(t *testing.T) {
	auth, db := newTestAuthService(t)
	phones := service.NewPhoneService(db.Phones())
	ctx := context.Background()

	owner, err := auth.Signup(ctx, service.SignupInput{Email: "owner@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	phone := &domain.Phone{UserID: 12345, PhoneNumber: "+256772000000"}
	if err := phones.CreateForUser(ctx, owner.ID, phone); err != nil {
		t.Fatalf("CreateForUser: %v", err)
	}
	if phone.UserID != owner.ID {
		t.Fatalf("expected phone to belong to %d, got %d", owner.ID, phone.UserID)
	}

	list, err := phones.ListForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 phone, got %d", len(list))
	}
}
