package domain

import (
	"net/mail"
	"time"
)

// Doctor is an entry in the doctors directory.
type Doctor struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
	Specialty     string `db:"specialty" json:"specialty"`
	BioData       string `db:"bio_data" json:"bio_data"`
}

func (d *Doctor) EntityID() int64      { return d.ID }
func (d *Doctor) SetEntityID(id int64) { d.ID = id }
func (d *Doctor) Touch(time.Time)      {}

func (d *Doctor) CopyTimestamps(*Doctor) {}

func (d *Doctor) Validate() error {
	var v validation
	v.require("name", d.Name)
	v.require("email", d.Email)
	if d.Email != "" {
		_, err := mail.ParseAddress(d.Email)
		v.check(err == nil, "email is not a valid address")
	}
	return v.err()
}
