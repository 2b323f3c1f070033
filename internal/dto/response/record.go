package response

import "time"

type RecordResponse struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	Diagnosis     string    `json:"diagnosis"`
	Symptoms      *string   `json:"symptoms,omitempty"`
	Prescription  *string   `json:"prescription,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}
