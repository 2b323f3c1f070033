package request

type ToggleSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour int    `json:"hour" validate:"min=0,max=23"`
}

type GenerateSlotsRequest struct {
	Days        int `json:"days" validate:"required,min=1,max=60"`
	StartHour   int `json:"start_hour" validate:"min=0,max=23"`
	EndHour     int `json:"end_hour" validate:"min=1,max=24,gtfield=StartHour"`
	SlotMinutes int `json:"slot_minutes" validate:"required,oneof=15 30 60"`
}
