package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_num"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public view of a user, mirrored in token claims.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	PhoneNumber string    `json:"phone_num"`
	IsActive    bool      `json:"isActive"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
	}
}

// Claims is the signed token payload. Verified by signature and expiry
// only; there is no server-side revocation list.
type Claims struct {
	UserID      string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_num"`
	IsActive    bool   `json:"isActive"`
	jwt.RegisteredClaims
}

type CreateUserParams struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_num"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
}

type UpdateUserParams struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_num"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
	Password    string `json:"password,omitempty"`
}
