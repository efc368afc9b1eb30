package sqldb

import (
	"context"

	"github.com/NagawaEsther/live-well/internal/domain"
)

type DoctorRepository struct {
	*Table[domain.Doctor, *domain.Doctor]
}

type AppointmentRepository struct {
	*Table[domain.Appointment, *domain.Appointment]
}

type SMSLogRepository struct {
	*Table[domain.SMSLog, *domain.SMSLog]
}

type VoiceCallRepository struct {
	*Table[domain.VoiceCall, *domain.VoiceCall]
}

type MedicalRecordRepository struct {
	*Table[domain.MedicalRecord, *domain.MedicalRecord]
}

// ListByPatient returns the records written for one patient, oldest first.
func (r *MedicalRecordRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.MedicalRecord, error) {
	return r.listWhere(ctx, "patient_id", patientID)
}

type PhoneRepository struct {
	*Table[domain.Phone, *domain.Phone]
}

// ListByUser returns the phone numbers registered to a user.
func (r *PhoneRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Phone, error) {
	return r.listWhere(ctx, "user_id", userID)
}

type USSDSessionRepository struct {
	*Table[domain.USSDSession, *domain.USSDSession]
}

// GetBySessionID looks a session up by the id the gateway assigned to it.
func (r *USSDSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.USSDSession, error) {
	return r.getWhere(ctx, "session_id", sessionID)
}
