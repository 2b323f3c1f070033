package adaptor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// culqiEvent is the provider's notification envelope.
type culqiEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID    string `json:"id"`
		State string `json:"state"`
	} `json:"data"`
}

type WebhookHandler struct {
	reconcile usecase.ReconcileService
	secret    string
	log       *zap.Logger
}

func NewWebhookHandler(reconcile usecase.ReconcileService, secret string, log *zap.Logger) *WebhookHandler {
	if secret == "" {
		log.Warn("Webhook secret not configured, signature verification disabled")
	}

	return &WebhookHandler{
		reconcile: reconcile,
		secret:    secret,
		log:       log.With(zap.String("handler", "webhook")),
	}
}

// HandleCulqi handles POST /api/webhooks/culqi. Any outcome except a
// persistence fault answers 200 so the provider stops redelivering;
// a 500 asks for redelivery.
func (h *WebhookHandler) HandleCulqi(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.ResponseBadRequest(w, "Cannot read body", nil)
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Culqi-Signature")) {
		h.log.Warn("Webhook signature rejected")
		utils.ResponseUnauthorized(w, "Invalid signature")
		return
	}

	var event culqiEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.ResponseBadRequest(w, "Invalid payload", nil)
		return
	}

	if event.Type != "order.status.changed" {
		h.log.Info("Ignoring webhook event", zap.String("type", event.Type))
		utils.ResponseSuccess(w, "received", nil)
		return
	}

	outcome, err := h.reconcile.Reconcile(r.Context(), event.Data.ID, event.Data.State)
	if err != nil {
		h.log.Error("Webhook reconciliation failed",
			zap.Error(err),
			zap.String("order_id", event.Data.ID),
		)
		utils.ResponseInternalError(w, "Webhook handler failed")
		return
	}

	switch outcome {
	case usecase.PaymentOutcomeApplied:
		utils.ResponseSuccess(w, "applied", nil)
	case usecase.PaymentOutcomeIgnored, usecase.PaymentOutcomeNotFound:
		utils.ResponseSuccess(w, "received", nil)
	default:
		utils.ResponseSuccess(w, "received", nil)
	}
}

// verifySignature checks the HMAC-SHA256 hex digest of the raw body. With
// no secret configured verification is skipped, which keeps local setups
// working but is logged loudly at startup.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" {
		return true
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
