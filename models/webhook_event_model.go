package models

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent is the idempotency ledger: one row per provider event id
// ever processed. The unique constraint on EventID is what makes webhook
// redelivery a no-op.
type WebhookEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID   string    `gorm:"size:255;not null;unique"`
	EventType string    `gorm:"size:100;not null"`
	SessionID *uuid.UUID
	CreatedAt time.Time
}
