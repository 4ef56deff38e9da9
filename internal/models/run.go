package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run statuses as reported by the execution engine.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one execution of a job, written by the engine callback and
// read-only for the console.
type Run struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID        *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	Status       string     `gorm:"not null;default:'running'" json:"status"`
	Trigger      string     `gorm:"not null;default:'scheduled'" json:"trigger"` // scheduled, manual, import
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	TargetRuns []TargetRun `gorm:"foreignKey:RunID" json:"target_runs,omitempty"`
}

func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	return nil
}

// TargetRun is the per-target result within a run, including the artifact
// the backup produced.
type TargetRun struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RunID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"run_id"`
	TargetID     *uuid.UUID `gorm:"type:uuid;index" json:"target_id,omitempty"`
	Status       string     `gorm:"not null;default:'running'" json:"status"`
	ArtifactKey  string     `json:"artifact_key,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (tr *TargetRun) BeforeCreate(tx *gorm.DB) error {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.StartedAt.IsZero() {
		tr.StartedAt = time.Now()
	}
	return nil
}
