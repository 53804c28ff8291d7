package dto

import "time"

// RegisterAccountRequest is the payload for POST /api/user/new.
type RegisterAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateAccountRequest is the payload for PUT /api/user/update.
type UpdateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// SecurityProfileResponse carries credential material for the
// authentication service. Password holds the bcrypt hash, never
// plaintext.
type SecurityProfileResponse struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// ProfileResponse is the non-sensitive account view.
type ProfileResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}
