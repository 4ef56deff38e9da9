package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a named label addressing a set of targets for job scheduling.
type Tag struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TagAttachment is an explicit operator-created target to tag link (DIRECT
// origin). AUTO and GROUP attachments are derived, not stored: AUTO rows
// come from slug equality and GROUP rows from group membership, so they can
// never go stale against their source.
type TagAttachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TargetID  uuid.UUID `gorm:"type:uuid;not null;index" json:"target_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Target Target `gorm:"foreignKey:TargetID" json:"-"`
	Tag    Tag    `gorm:"foreignKey:TagID" json:"-"`
}

func (a *TagAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
