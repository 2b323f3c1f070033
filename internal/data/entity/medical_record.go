package entity

import (
	"github.com/google/uuid"
)

// MedicalRecord is the diagnosis a doctor files against an appointment.
type MedicalRecord struct {
	BaseSimple
	AppointmentID uuid.UUID `db:"appointment_id"`
	Diagnosis     string    `db:"diagnosis"`
	Symptoms      *string   `db:"symptoms"`
	Prescription  *string   `db:"prescription"`
	Notes         *string   `db:"notes"`
	Type          string    `db:"type"`
}
