package types

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Blog struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image"`
	Body        string    `json:"body"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogParams struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Body        string `json:"body"`
	Description string `json:"description"`
}

// ServiceItem is a promoted service entry (original "services" content).
type ServiceItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceItemParams struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

// Response is the generic success/error envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadedFile describes one object pushed to external storage.
type UploadedFile struct {
	ImageURL     string `json:"imageUrl"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
}
