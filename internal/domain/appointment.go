package domain

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a scheduled consultation between a patient and a doctor.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	DoctorName      string    `db:"doctor_name" json:"doctor_name"`
	AppointmentTime time.Time `db:"appointment_time" json:"appointment_time"`
	Status          string    `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

func (a *Appointment) EntityID() int64      { return a.ID }
func (a *Appointment) SetEntityID(id int64) { a.ID = id }

func (a *Appointment) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
}

func (a *Appointment) CopyTimestamps(src *Appointment) { a.CreatedAt = src.CreatedAt }

func (a *Appointment) Validate() error {
	var v validation
	v.require("patient_name", a.PatientName)
	v.require("doctor_name", a.DoctorName)
	v.check(!a.AppointmentTime.IsZero(), "appointment_time is required")
	v.oneOf("status", a.Status, AppointmentScheduled, AppointmentCompleted, AppointmentCancelled)
	return v.err()
}
