package request

import (
	"poorito-booking/internal/domain/user"
)

// The 72-byte cap is bcrypt's input limit.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ToDomain lower-cases and trims the email so lookups are case-insensitive.
func (r LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

// RefreshRequest is only read when no refresh cookie is present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
