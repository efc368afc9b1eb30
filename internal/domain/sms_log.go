package domain

import "time"

// SMSLog records one outbound SMS and the gateway's verdict on it.
type SMSLog struct {
	ID          int64     `db:"id" json:"id"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Message     string    `db:"message" json:"message"`
	Status      string    `db:"status" json:"status"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
}

func (s *SMSLog) EntityID() int64      { return s.ID }
func (s *SMSLog) SetEntityID(id int64) { s.ID = id }

func (s *SMSLog) Touch(now time.Time) {
	if s.SentAt.IsZero() {
		s.SentAt = now
	}
}

func (s *SMSLog) CopyTimestamps(src *SMSLog) { s.SentAt = src.SentAt }

func (s *SMSLog) Validate() error {
	var v validation
	v.require("phone_number", s.PhoneNumber)
	v.require("message", s.Message)
	v.require("status", s.Status)
	return v.err()
}
