package adaptor

import (
	"errors"
	"net/http"

	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps sentinel usecase errors onto HTTP responses.
// Anything unrecognized is a 500 and gets logged with the operation name.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrSlotUnavailable),
		errors.Is(err, usecase.ErrBlockedByActiveAppointment),
		errors.Is(err, usecase.ErrRecordExists),
		errors.Is(err, usecase.ErrEmailTaken):
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrSlotNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrPaymentNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCredential):
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrNotAppointmentOwner):
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrAppointmentNotPaid):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrPaymentGateway):
		log.Error(operation+" failed at payment gateway", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadGateway, false, "Payment gateway unavailable", nil, nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
