package auth

import "github.com/ali-hasan-sss/syria-store-api/internal/types"

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_num"`
	Password    string `json:"password"`
}

// LoginRequest represents the login request body. Identifier is either an
// email address or a local phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SessionData carries the issued token plus the public user view.
type SessionData struct {
	Token string            `json:"token"`
	User  types.UserSummary `json:"user"`
}

// AuthResponse is the register/login response envelope.
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    SessionData `json:"data"`
}
