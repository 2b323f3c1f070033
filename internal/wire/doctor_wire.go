package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDoctor(r chi.Router, doctorHandler *adaptor.DoctorHandler) {
	// Public directory: browsing doctors and open slots requires no account.
	r.Get("/api/doctors", doctorHandler.ListDoctors)
	r.Get("/api/doctors/{id}/slots", doctorHandler.ListOpenSlots)
}
