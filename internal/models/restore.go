package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restore records a restore of one artifact back onto a target, performed by
// the execution engine; the console only displays these and hands out
// download links.
type Restore struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TargetRunID  *uuid.UUID `gorm:"type:uuid;index" json:"target_run_id,omitempty"`
	TargetID     *uuid.UUID `gorm:"type:uuid;index" json:"target_id,omitempty"`
	ArtifactKey  string     `gorm:"not null" json:"artifact_key"`
	Status       string     `gorm:"not null;default:'running'" json:"status"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (r *Restore) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	return nil
}
