package adaptor

import (
	"net/http"
	"time"

	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorHandler struct {
	service usecase.DoctorService
	log     *zap.Logger
}

func NewDoctorHandler(service usecase.DoctorService, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		log:     log.With(zap.String("handler", "doctor")),
	}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.ListDoctors(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list doctors")
		return
	}

	utils.ResponseSuccess(w, "success", doctors)
}

// ListOpenSlots handles GET /api/doctors/{id}/slots
// Optional query params: from, to (RFC 3339). Defaults to the next 7 days.
func (h *DoctorHandler) ListOpenSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid doctor id", nil)
		return
	}

	now := time.Now()
	from, to := now, now.AddDate(0, 0, 7)

	query := r.URL.Query()
	if v := query.Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid 'from' timestamp", nil)
			return
		}
		from = parsed
	}
	if v := query.Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid 'to' timestamp", nil)
			return
		}
		to = parsed
	}

	slots, err := h.service.ListOpenSlots(r.Context(), doctorID, from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "list open slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}
