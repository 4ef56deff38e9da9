package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is a scheduled backup action. It addresses its targets through a tag,
// never a target id directly: a job on a single target uses that target's
// AUTO tag, which lets the job re-target transparently when group membership
// changes. RetentionPolicyJSON nil means "use the global policy".
type Job struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TagID               uuid.UUID `gorm:"type:uuid;not null;index" json:"tag_id"`
	Name                string    `gorm:"not null" json:"name"`
	ScheduleCron        string    `gorm:"not null" json:"schedule_cron"`
	Enabled             bool      `gorm:"default:true" json:"enabled"`
	RetentionPolicyJSON *string   `gorm:"type:text" json:"retention_policy_json,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relations
	Tag Tag `gorm:"foreignKey:TagID" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
