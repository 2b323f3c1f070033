package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	AuditBookingInitiated      = "BOOKING_INITIATED"
	AuditBookingExpired        = "BOOKING_EXPIRED"
	AuditWebhookPaymentSuccess = "WEBHOOK_PAYMENT_SUCCESS"
	AuditPaymentSimulated      = "PAYMENT_SIMULATED"
)

// AuditLog is an append-only record of significant state transitions.
// ActorID is nil for system-originated events. Rows are never updated or
// deleted.
type AuditLog struct {
	BaseSimple
	Entity   string          `db:"entity"`
	EntityID uuid.UUID       `db:"entity_id"`
	Action   string          `db:"action"`
	ActorID  *uuid.UUID      `db:"actor_id"`
	Metadata json.RawMessage `db:"metadata"`
}
