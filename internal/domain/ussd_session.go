package domain

import (
	"context"
	"time"
)

const (
	USSDActive     = "active"
	USSDCompleted  = "completed"
	USSDTerminated = "terminated"
)

// USSDSession tracks one interactive USSD dialogue. SessionData holds the
// inputs received so far, separated by '*'.
type USSDSession struct {
	ID           int64      `db:"id" json:"id"`
	SessionID    string     `db:"session_id" json:"session_id"`
	PhoneNumber  string     `db:"phone_number" json:"phone_number"`
	SessionData  string     `db:"session_data" json:"session_data"`
	Status       string     `db:"status" json:"status"`
	ServiceCode  string     `db:"service_code" json:"service_code"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	TerminatedAt *time.Time `db:"terminated_at" json:"terminated_at"`
}

func (s *USSDSession) EntityID() int64      { return s.ID }
func (s *USSDSession) SetEntityID(id int64) { s.ID = id }

func (s *USSDSession) Touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = USSDActive
	}
	if s.Status != USSDActive && s.TerminatedAt == nil {
		s.TerminatedAt = &now
	}
}

func (s *USSDSession) CopyTimestamps(src *USSDSession) {
	s.CreatedAt, s.UpdatedAt, s.TerminatedAt = src.CreatedAt, src.UpdatedAt, src.TerminatedAt
}

func (s *USSDSession) Validate() error {
	var v validation
	v.require("session_id", s.SessionID)
	v.require("phone_number", s.PhoneNumber)
	v.oneOf("status", s.Status, USSDActive, USSDCompleted, USSDTerminated)
	return v.err()
}

// USSDSessionRepository adds lookup by gateway session id.
type USSDSessionRepository interface {
	Repository[USSDSession]
	GetBySessionID(ctx context.Context, sessionID string) (*USSDSession, error)
}
