package adaptor

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateAppointment handles POST /api/appointments (patient)
func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Reserve(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create appointment")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// GetAppointment handles GET /api/appointments/{id} (patient)
func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid appointment id", nil)
		return
	}

	appointment, err := h.service.GetAppointment(r.Context(), userID, appointmentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get appointment")
		return
	}

	utils.ResponseSuccess(w, "success", appointment)
}

// ListAppointments handles GET /api/appointments (patient)
func (h *BookingHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:  utils.ParseInt(query.Get("page"), 1),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	appointments, err := h.service.ListPatientAppointments(r.Context(), userID, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// SimulatePayment handles POST /api/admin/payments/simulate (admin)
func (h *BookingHandler) SimulatePayment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SimulatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid appointment id", nil)
		return
	}

	if err := h.service.SimulatePayment(r.Context(), adminID, appointmentID); err != nil {
		handleServiceError(w, h.log, err, "simulate payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
