package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// No session auth here; the HMAC signature is the credential.
	r.Post("/api/webhooks/culqi", webhookHandler.HandleCulqi)
}
