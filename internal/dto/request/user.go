package request

type UpdateProfileRequest struct {
	Phone      *string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	Address    *string `json:"address" validate:"omitempty,max=200"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Province   *string `json:"province" validate:"omitempty,max=100"`
	District   *string `json:"district" validate:"omitempty,max=100"`
}
