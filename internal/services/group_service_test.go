package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDiffMembership(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()

	tests := []struct {
		name         string
		server       []uuid.UUID
		working      []uuid.UUID
		wantToAdd    []uuid.UUID
		wantToRemove []uuid.UUID
	}{
		{
			name:         "overlapping sets",
			server:       []uuid.UUID{a, b, c},
			working:      []uuid.UUID{b, c, d},
			wantToAdd:    []uuid.UUID{d},
			wantToRemove: []uuid.UUID{a},
		},
		{
			name:         "identical sets are a no-op",
			server:       []uuid.UUID{a, b},
			working:      []uuid.UUID{a, b},
			wantToAdd:    nil,
			wantToRemove: nil,
		},
		{
			name:         "empty working removes everything",
			server:       []uuid.UUID{a, b},
			working:      nil,
			wantToAdd:    nil,
			wantToRemove: []uuid.UUID{a, b},
		},
		{
			name:         "empty server adds everything",
			server:       nil,
			working:      []uuid.UUID{c, d},
			wantToAdd:    []uuid.UUID{c, d},
			wantToRemove: nil,
		},
		{
			name:         "disjoint sets replace wholesale",
			server:       []uuid.UUID{a},
			working:      []uuid.UUID{b},
			wantToAdd:    []uuid.UUID{b},
			wantToRemove: []uuid.UUID{a},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := DiffMembership(tt.server, tt.working)
			assert.Equal(t, tt.wantToAdd, toAdd)
			assert.Equal(t, tt.wantToRemove, toRemove)
		})
	}
}

// Order of the returned slices follows the input slices, so the membership
// writes happen in a predictable order.
func TestDiffMembershipPreservesInputOrder(t *testing.T) {
	ids := make([]uuid.UUID, 6)
	for i := range ids {
		ids[i] = uuid.New()
	}

	toAdd, toRemove := DiffMembership(ids[:3], ids[3:])
	assert.Equal(t, ids[3:], toAdd)
	assert.Equal(t, ids[:3], toRemove)
}
