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

// AvailabilityHandler serves the doctor-scoped surface: schedule
// management, the doctor's own appointment listings, and diagnosis entry.
type AvailabilityHandler struct {
	availability usecase.AvailabilityService
	doctor       usecase.DoctorService
	record       usecase.RecordService
	log          *zap.Logger
}

func NewAvailabilityHandler(availability usecase.AvailabilityService, doctor usecase.DoctorService, record usecase.RecordService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		doctor:       doctor,
		record:       record,
		log:          log.With(zap.String("handler", "availability")),
	}
}

// OpenSlot handles POST /api/doctor/slots (doctor)
func (h *AvailabilityHandler) OpenSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ToggleSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := h.availability.OpenSlot(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "open slot")
		return
	}

	utils.ResponseCreated(w, "success", slot)
}

// CloseSlot handles DELETE /api/doctor/slots (doctor)
func (h *AvailabilityHandler) CloseSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ToggleSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.availability.CloseSlot(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "close slot")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GenerateSlots handles POST /api/doctor/slots/generate (doctor)
func (h *AvailabilityHandler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.availability.GenerateSlots(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "generate slots")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// ListSlots handles GET /api/doctor/slots?date=YYYY-MM-DD (doctor)
func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Missing 'date' query parameter", nil)
		return
	}

	slots, err := h.availability.ListSlotsForDate(r.Context(), userID, date)
	if err != nil {
		handleServiceError(w, h.log, err, "list slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// ListAppointments handles GET /api/doctor/appointments?scope=upcoming|past (doctor)
func (h *AvailabilityHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	upcoming := query.Get("scope") != "past"

	page := &request.PaginatedRequest{
		Page:  utils.ParseInt(query.Get("page"), 1),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	appointments, err := h.doctor.ListAppointments(r.Context(), userID, upcoming, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list doctor appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// CreateRecord handles POST /api/doctor/records (doctor)
func (h *AvailabilityHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	record, err := h.record.CreateRecord(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create medical record")
		return
	}

	utils.ResponseCreated(w, "success", record)
}

// PatientHistory handles GET /api/doctor/patients/{id}/history (doctor)
func (h *AvailabilityHandler) PatientHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid patient id", nil)
		return
	}

	history, err := h.record.PatientHistory(r.Context(), userID, patientID)
	if err != nil {
		handleServiceError(w, h.log, err, "patient history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}
