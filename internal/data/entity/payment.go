package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type PaymentProvider string

const (
	PaymentProviderCulqi PaymentProvider = "CULQI"
)

// Payment is one attempt to collect funds for an appointment. Exactly one
// payment exists per appointment; ProviderReference is the join key used by
// asynchronous reconciliation.
type Payment struct {
	Base
	AppointmentID     uuid.UUID       `db:"appointment_id"`
	Provider          PaymentProvider `db:"provider"`
	ProviderReference string          `db:"provider_reference"`
	Amount            int64           `db:"amount"`
	Currency          string          `db:"currency"`
	Status            PaymentStatus   `db:"status"`
	PaidAt            *time.Time      `db:"paid_at"`
}
