package domain

import "time"

const (
	CallInitiated  = "initiated"
	CallQueued     = "queued"
	CallInProgress = "in_progress"
	CallCompleted  = "completed"
	CallFailed     = "failed"
	CallTerminated = "terminated"
)

// VoiceCall records one outbound call placed through the gateway.
type VoiceCall struct {
	ID             int64      `db:"id" json:"id"`
	CallID         string     `db:"call_id" json:"call_id"`
	CallerNumber   string     `db:"caller_number" json:"caller_number"`
	ReceiverNumber string     `db:"receiver_number" json:"receiver_number"`
	CallStatus     string     `db:"call_status" json:"call_status"`
	Duration       int        `db:"duration" json:"duration"`
	RecordingURL   string     `db:"recording_url" json:"recording_url"`
	FailureReason  string     `db:"failure_reason" json:"failure_reason"`
	InitiatedAt    time.Time  `db:"initiated_at" json:"initiated_at"`
	TerminatedAt   *time.Time `db:"terminated_at" json:"terminated_at"`
}

func (c *VoiceCall) EntityID() int64      { return c.ID }
func (c *VoiceCall) SetEntityID(id int64) { c.ID = id }

// Finished reports whether the call has reached a terminal status.
func (c *VoiceCall) Finished() bool {
	switch c.CallStatus {
	case CallCompleted, CallFailed, CallTerminated:
		return true
	}
	return false
}

func (c *VoiceCall) Touch(now time.Time) {
	if c.InitiatedAt.IsZero() {
		c.InitiatedAt = now
	}
	if c.CallStatus == "" {
		c.CallStatus = CallInitiated
	}
	if c.Finished() && c.TerminatedAt == nil {
		c.TerminatedAt = &now
	}
}

func (c *VoiceCall) CopyTimestamps(src *VoiceCall) {
	c.InitiatedAt, c.TerminatedAt = src.InitiatedAt, src.TerminatedAt
}

func (c *VoiceCall) Validate() error {
	var v validation
	v.require("call_id", c.CallID)
	v.require("caller_number", c.CallerNumber)
	v.require("receiver_number", c.ReceiverNumber)
	v.oneOf("call_status", c.CallStatus, CallInitiated, CallQueued, CallInProgress, CallCompleted, CallFailed, CallTerminated)
	v.check(c.Duration >= 0, "duration must not be negative")
	return v.err()
}
