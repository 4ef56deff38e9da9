package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Target is a backup subject: a system backed up through a named plugin.
// Slug is derived server-side from Name and is never edited directly; it is
// the join key for the target's implicit AUTO tag.
type Target struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Slug             string    `gorm:"uniqueIndex;not null" json:"slug"`
	PluginName       string    `json:"plugin_name,omitempty"`
	PluginConfigJSON *string   `gorm:"type:text" json:"plugin_config_json,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (t *Target) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
