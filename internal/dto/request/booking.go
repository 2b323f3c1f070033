package request

type CreateAppointmentRequest struct {
	SlotID          string `json:"slot_id" validate:"required,uuid4"`
	AppointmentType string `json:"appointment_type" validate:"required,oneof=virtual in_person"`
}

type SimulatePaymentRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid4"`
}
