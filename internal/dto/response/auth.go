package response

import "time"

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Phone      *string `json:"phone_number,omitempty"`
	Address    *string `json:"address,omitempty"`
	Department *string `json:"department,omitempty"`
	Province   *string `json:"province,omitempty"`
	District   *string `json:"district,omitempty"`
}
