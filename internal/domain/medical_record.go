package domain

import (
	"context"
	"time"
)

// MedicalRecord is a diagnosis written by a doctor for a patient. Both ends
// reference user accounts.
type MedicalRecord struct {
	ID         int64     `db:"id" json:"id"`
	PatientID  int64     `db:"patient_id" json:"patient_id"`
	DoctorID   int64     `db:"doctor_id" json:"doctor_id"`
	Diagnosis  string    `db:"diagnosis" json:"diagnosis"`
	Treatment  string    `db:"treatment" json:"treatment"`
	Notes      string    `db:"notes" json:"notes"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

func (m *MedicalRecord) EntityID() int64      { return m.ID }
func (m *MedicalRecord) SetEntityID(id int64) { m.ID = id }

func (m *MedicalRecord) Touch(now time.Time) {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = now
	}
	m.UpdatedAt = now
}

func (m *MedicalRecord) CopyTimestamps(src *MedicalRecord) {
	m.RecordedAt, m.UpdatedAt = src.RecordedAt, src.UpdatedAt
}

func (m *MedicalRecord) Validate() error {
	var v validation
	v.requireID("patient_id", m.PatientID)
	v.requireID("doctor_id", m.DoctorID)
	v.require("diagnosis", m.Diagnosis)
	return v.err()
}

// MedicalRecordRepository adds patient-scoped listing to the CRUD set.
type MedicalRecordRepository interface {
	Repository[MedicalRecord]
	ListByPatient(ctx context.Context, patientID int64) ([]MedicalRecord, error)
}
