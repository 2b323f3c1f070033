package entity

import (
	"github.com/google/uuid"
)

// Doctor is the professional profile attached to a DOCTOR user.
type Doctor struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	Specialty string    `db:"specialty"`
	Active    bool      `db:"active"`
}

// DoctorProfile joins the doctor row with its user for directory listings.
type DoctorProfile struct {
	Doctor
	Name  string `db:"name"`
	Email string `db:"email"`
}
