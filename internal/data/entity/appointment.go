package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPendingPayment AppointmentStatus = "PENDING_PAYMENT"
	AppointmentStatusPaid           AppointmentStatus = "PAID"
	AppointmentStatusConfirmed      AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled      AppointmentStatus = "CANCELLED"
)

type AppointmentType string

const (
	AppointmentTypeVirtual  AppointmentType = "virtual"
	AppointmentTypeInPerson AppointmentType = "in_person"
)

// Appointment is a patient's claim on a doctor's time. Start/end are copied
// from the slot at claim time, so later slot mutation cannot change a booked
// appointment's recorded window. Appointments are never hard-deleted;
// cancellation is a status change.
type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id"`
	StartTime time.Time         `db:"start_time"`
	EndTime   time.Time         `db:"end_time"`
	Status    AppointmentStatus `db:"status"`
	Type      AppointmentType   `db:"appointment_type"`
}

// AppointmentDetail is the joined read-model used by the listing queries.
type AppointmentDetail struct {
	Appointment
	PatientName  string         `db:"patient_name"`
	PatientEmail string         `db:"patient_email"`
	Payment      *Payment       `db:"-"`
	Record       *MedicalRecord `db:"-"`
}
