package namegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no prefix", "Proxmox Backup", "Proxmox Backup"},
		{"daily prefix", "Daily Proxmox Backup", "Proxmox Backup"},
		{"weekly prefix", "Weekly Media", "Media"},
		{"stacked prefixes", "Daily Daily Proxmox Backup", "Proxmox Backup"},
		{"mixed stacked prefixes", "Monthly Weekly Proxmox", "Proxmox"},
		{"bare prefix", "Daily", ""},
		{"empty", "", ""},
		{"prefix-like word inside", "My Daily Notes", "My Daily Notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPrefix(tt.input))
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Run("fresh field uses context name", func(t *testing.T) {
		assert.Equal(t, "Daily Proxmox Backup", Suggest("Daily", "Proxmox", ""))
	})

	t.Run("no prefix for sub-daily cadence", func(t *testing.T) {
		assert.Equal(t, "Proxmox Backup", Suggest("", "Proxmox", ""))
	})

	t.Run("previous name wins over context", func(t *testing.T) {
		assert.Equal(t, "Weekly Custom Name", Suggest("Weekly", "Proxmox", "Custom Name"))
	})

	t.Run("nothing to suggest", func(t *testing.T) {
		assert.Equal(t, "", Suggest("", "", ""))
	})

	t.Run("bare prefix previous falls back to context", func(t *testing.T) {
		assert.Equal(t, "Weekly Proxmox Backup", Suggest("Weekly", "Proxmox", "Daily"))
	})
}

// Cycling cadence A -> B -> A must reproduce the A name bit-for-bit,
// never "Daily Daily X".
func TestSuggestIdempotentUnderCadenceChanges(t *testing.T) {
	name := Suggest("Daily", "Proxmox", "")
	assert.Equal(t, "Daily Proxmox Backup", name)

	name = Suggest("Weekly", "Proxmox", name)
	assert.Equal(t, "Weekly Proxmox Backup", name)

	name = Suggest("Daily", "Proxmox", name)
	assert.Equal(t, "Daily Proxmox Backup", name)

	// Re-applying the same cadence twice is a no-op.
	again := Suggest("Daily", "Proxmox", name)
	assert.Equal(t, name, again)
}

func TestFollowState(t *testing.T) {
	t.Run("typing a custom name freezes the field", func(t *testing.T) {
		s := FollowAuto
		s = s.Observe("my own name")
		assert.Equal(t, FollowFrozen, s)
		assert.False(t, s.ShouldApply())

		// Cron changes must not rewrite a frozen field.
		s = s.Observe("my own name")
		assert.False(t, s.ShouldApply())
	})

	t.Run("clearing the field resumes auto-follow", func(t *testing.T) {
		s := FollowFrozen
		s = s.Observe("   ")
		assert.Equal(t, FollowAuto, s)
		assert.True(t, s.ShouldApply())
	})

	t.Run("explicit invoke always re-enables", func(t *testing.T) {
		s := FollowFrozen
		assert.Equal(t, FollowAuto, s.Invoke())
	})
}
