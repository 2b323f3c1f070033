package adaptor

import (
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Doctor       *DoctorHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Webhook      *WebhookHandler
}

func NewHandler(service *usecase.Service, cfg *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Doctor:       NewDoctorHandler(service.Doctor, log),
		Availability: NewAvailabilityHandler(service.Availability, service.Doctor, service.Record, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Webhook:      NewWebhookHandler(service.Reconcile, cfg.Payment.WebhookSecret, log),
	}
}
