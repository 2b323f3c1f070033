package entity

import (
	"time"

	"github.com/google/uuid"
)

// Slot is one bookable window for one doctor. The (doctor_id, start_time)
// pair is unique so repeated open/seed requests are no-ops.
type Slot struct {
	Base
	DoctorID    uuid.UUID `db:"doctor_id"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	IsAvailable bool      `db:"is_available"`
}
