package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, repo *repository.Repository, log *zap.Logger) {
	// Patient routes
	r.Route("/api/appointments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, entity.RolePatient))

		r.Post("/", bookingHandler.CreateAppointment)
		r.Get("/", bookingHandler.ListAppointments)
		r.Get("/{id}", bookingHandler.GetAppointment)
	})

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Post("/payments/simulate", bookingHandler.SimulatePayment)
	})
}
