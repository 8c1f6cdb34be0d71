package models

import (
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"not null;unique" json:"session_id"`
	MentorID  uuid.UUID `gorm:"not null" json:"mentor_id"`
	ParentID  uuid.UUID `gorm:"not null" json:"parent_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`

	Session Session `gorm:"foreignkey:SessionID" json:"-"`
	Mentor  User    `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Parent  User    `gorm:"foreignkey:ParentID" json:"parent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
