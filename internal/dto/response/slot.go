package response

import "time"

type SlotResponse struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctor_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

type GenerateSlotsResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
