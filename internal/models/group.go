package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a named collection of targets. A group projects an implicit AUTO
// tag from its slugified name, and its members inherit that tag with GROUP
// provenance.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GroupMember is one target's membership in a group. Position preserves
// insertion order so derived attachment rows come back in a stable order.
type GroupMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	TargetID uuid.UUID `gorm:"type:uuid;not null;index" json:"target_id"`
	Position int       `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Group  Group  `gorm:"foreignKey:GroupID" json:"-"`
	Target Target `gorm:"foreignKey:TargetID" json:"-"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
