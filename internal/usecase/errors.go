package usecase

import "errors"

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUserNotFound      = errors.New("user not found")
	ErrDoctorNotFound    = errors.New("doctor not found")

	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotUnavailable = errors.New("slot is no longer available")
	// ErrBlockedByActiveAppointment covers closing or deleting a slot whose
	// window is held by a non-cancelled appointment.
	ErrBlockedByActiveAppointment = errors.New("slot is held by an active appointment")

	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotPaid  = errors.New("appointment is not in a payable state")
	ErrNotAppointmentOwner = errors.New("appointment belongs to another user")
	ErrRecordExists        = errors.New("medical record already filed")

	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentGateway  = errors.New("payment gateway request failed")
)
