package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionAwaitingPayment SessionStatus = "awaiting_payment"
	SessionPaid            SessionStatus = "paid"
	SessionConfirmed       SessionStatus = "confirmed"
	SessionCompleted       SessionStatus = "completed"
)

// Session is the booked engagement created 1:1 from an accepted request.
// Status only ever moves forward along
// awaiting_payment < paid < confirmed < completed, and every status write
// goes through the conditional updates in the booking store.
type Session struct {
	ID               uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionRequestID uuid.UUID     `gorm:"not null;unique" json:"session_request_id"`
	ParentID         uuid.UUID     `gorm:"not null" json:"parent_id"`
	MentorID         uuid.UUID     `gorm:"not null" json:"mentor_id"`
	ScheduledDate    string        `gorm:"size:10;not null" json:"scheduled_date"`
	ScheduledTime    string        `gorm:"size:8;not null" json:"scheduled_time"`
	Location         string        `gorm:"size:255;not null" json:"location"`
	DurationMinutes  int           `gorm:"not null;default:60" json:"duration_minutes"`
	Notes            *string       `gorm:"type:text" json:"notes"`
	Status           SessionStatus `gorm:"size:20;not null;default:'awaiting_payment'" json:"status"`

	// ProviderTransactionID is the Stripe checkout session id, bound once
	// when checkout is opened and immutable afterwards.
	ProviderTransactionID *string `gorm:"size:255;unique" json:"provider_transaction_id"`
	// ProviderPaymentReference is the payment intent recorded by the
	// verified webhook when the payment settles.
	ProviderPaymentReference *string `gorm:"size:255" json:"provider_payment_reference"`
	ReceiptURL               *string `gorm:"size:255" json:"receipt_url"`

	SessionRequest SessionRequest `gorm:"foreignkey:SessionRequestID" json:"-"`
	Parent         User           `gorm:"foreignkey:ParentID" json:"parent,omitempty"`
	Mentor         User           `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
