package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// SessionRequest is a parent's ask for time with a mentor. Once the mentor
// accepts or declines, the status is terminal.
type SessionRequest struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ParentID        uuid.UUID     `gorm:"not null" json:"parent_id"`
	MentorID        uuid.UUID     `gorm:"not null" json:"mentor_id"`
	PreferredDate   string        `gorm:"size:10;not null" json:"preferred_date"`
	PreferredTime   string        `gorm:"size:8;not null" json:"preferred_time"`
	Location        string        `gorm:"size:255;not null" json:"location"`
	DurationMinutes int           `gorm:"not null;default:60" json:"duration_minutes"`
	Notes           *string       `gorm:"type:text" json:"notes"`
	PaymentMethod   string        `gorm:"size:50" json:"payment_method"`
	Status          RequestStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Parent User `gorm:"foreignkey:ParentID" json:"parent,omitempty"`
	Mentor User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
