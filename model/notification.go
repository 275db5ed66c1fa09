package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationBooking = "booking"
	NotificationReview  = "review"
	NotificationContact = "contact"
	NotificationVisit   = "visit"
)

type Notification struct {
	DTO
	Type    string            `gorm:"size:20;not null;index" json:"type"`
	Title   string            `gorm:"size:255;not null" json:"title"`
	Message string            `gorm:"type:text" json:"message"`
	Data    datatypes.JSONMap `json:"data,omitempty"`
	Read    bool              `gorm:"not null;index" json:"read"`
}

type NotificationFilter struct {
	Pagination
	Unread bool `query:"unread"`
}

type ContactMessage struct {
	DTO
	Name    string `gorm:"size:150;not null" json:"name"`
	Email   string `gorm:"size:255;not null" json:"email"`
	Phone   string `gorm:"size:40" json:"phone"`
	Subject string `gorm:"size:255" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Read    bool   `gorm:"not null" json:"read"`
}

type ContactMessageInput struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Subject string `json:"subject" validate:"omitempty,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Device is a mobile client registered for push notifications.
type Device struct {
	DTO
	Token      string     `gorm:"size:255;uniqueIndex;not null" json:"token"`
	Platform   string     `gorm:"size:20" json:"platform"`
	LastSeenAt *time.Time `json:"lastSeenAt"`
}

type DeviceInput struct {
	Token    string `json:"token" validate:"required,max=255"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

type VisitInput struct {
	Path     string `json:"path" validate:"omitempty,max=500"`
	Referrer string `json:"referrer" validate:"omitempty,max=500"`
}
