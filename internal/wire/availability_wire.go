package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler, repo *repository.Repository, log *zap.Logger) {
	r.Route("/api/doctor", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, entity.RoleDoctor))

		r.Get("/slots", availabilityHandler.ListSlots)
		r.Post("/slots", availabilityHandler.OpenSlot)
		r.Delete("/slots", availabilityHandler.CloseSlot)
		r.Post("/slots/generate", availabilityHandler.GenerateSlots)

		r.Get("/appointments", availabilityHandler.ListAppointments)
		r.Post("/records", availabilityHandler.CreateRecord)
		r.Get("/patients/{id}/history", availabilityHandler.PatientHistory)
	})
}
