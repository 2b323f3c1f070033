package request

type CreateRecordRequest struct {
	AppointmentID string  `json:"appointment_id" validate:"required,uuid4"`
	Diagnosis     string  `json:"diagnosis" validate:"required,min=3"`
	Symptoms      *string `json:"symptoms" validate:"omitempty,min=3"`
	Prescription  *string `json:"prescription" validate:"omitempty,min=3"`
	Notes         *string `json:"notes" validate:"omitempty,min=3"`
	Type          string  `json:"type" validate:"required,oneof=consultation control emergency"`
}
