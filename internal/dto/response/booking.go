package response

import "time"

// ReservationResponse is returned the moment a slot is claimed. The client
// completes checkout against the provider order using the public key.
type ReservationResponse struct {
	AppointmentID  string `json:"appointment_id"`
	OrderID        string `json:"order_id"`
	CulqiPublicKey string `json:"culqi_public_key"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
}

type AppointmentResponse struct {
	ID           string           `json:"id"`
	DoctorID     string           `json:"doctor_id"`
	PatientID    string           `json:"patient_id"`
	PatientName  string           `json:"patient_name,omitempty"`
	PatientEmail string           `json:"patient_email,omitempty"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`
	Status       string           `json:"status"`
	Type         string           `json:"appointment_type"`
	Payment      *PaymentResponse `json:"payment,omitempty"`
	Record       *RecordResponse  `json:"medical_record,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type PaymentResponse struct {
	ID                string     `json:"id"`
	Provider          string     `json:"provider"`
	ProviderReference string     `json:"provider_reference,omitempty"`
	Amount            int64      `json:"amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
}
