package domain

import (
	"context"
	"time"
)

const (
	PhoneMobile   = "mobile"
	PhoneLandline = "landline"
	PhoneWork     = "work"
	PhoneHome     = "home"
)

// Phone is a phone number registered to a user account.
type Phone struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Type        string    `db:"type" json:"type"`
	IsPrimary   bool      `db:"is_primary" json:"is_primary"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Phone) EntityID() int64      { return p.ID }
func (p *Phone) SetEntityID(id int64) { p.ID = id }

func (p *Phone) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Type == "" {
		p.Type = PhoneMobile
	}
}

func (p *Phone) CopyTimestamps(src *Phone) {
	p.CreatedAt, p.UpdatedAt = src.CreatedAt, src.UpdatedAt
}

func (p *Phone) Validate() error {
	var v validation
	v.requireID("user_id", p.UserID)
	v.require("phone_number", p.PhoneNumber)
	v.oneOf("type", p.Type, PhoneMobile, PhoneLandline, PhoneWork, PhoneHome)
	return v.err()
}

// PhoneRepository adds per-user listing to the CRUD set.
type PhoneRepository interface {
	Repository[Phone]
	ListByUser(ctx context.Context, userID int64) ([]Phone, error)
}
