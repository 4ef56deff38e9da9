package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Proxmox", "proxmox"},
		{"spaces", "My NAS Box", "my-nas-box"},
		{"punctuation run collapses", "My Group!! Name", "my-group-name"},
		{"leading trailing trimmed", "  --hello--  ", "hello"},
		{"underscores kept", "pg_dump host", "pg_dump-host"},
		{"empty falls back", "", "item"},
		{"only invalid falls back", "!!!", "item"},
		{"already a slug", "nightly-backups", "nightly-backups"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input))
		})
	}
}

func TestMakeDeterministicAndWellFormed(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9\-_]+$`)
	inputs := []string{"My Group!! Name", "ÜbërHost", "a b c", "X", ""}
	for _, in := range inputs {
		first := Make(in)
		assert.Equal(t, first, Make(in), "slug must be stable for %q", in)
		assert.NotEmpty(t, first)
		assert.Regexp(t, allowed, first)
		// Round-trip stable: a slug slugifies to itself.
		assert.Equal(t, first, Make(first))
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("my-host"))
	assert.True(t, Valid("pg_dump"))
	assert.False(t, Valid("My Host"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-edge-"))
}
