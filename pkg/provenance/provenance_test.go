package provenance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() (*Snapshot, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"proxmox":    uuid.New(),
		"nas":        uuid.New(),
		"offsite":    uuid.New(), // target referenced by a stale attachment
		"tagProxmox": uuid.New(),
		"tagMedia":   uuid.New(),
		"tagHomelab": uuid.New(),
		"groupHome":  uuid.New(),
	}

	s := &Snapshot{
		Targets: []Target{
			{ID: ids["proxmox"], Name: "Proxmox", Slug: "proxmox"},
			{ID: ids["nas"], Name: "NAS", Slug: "nas"},
		},
		Tags: []Tag{
			{ID: ids["tagProxmox"], Slug: "proxmox", DisplayName: "Proxmox"},
			{ID: ids["tagMedia"], Slug: "media", DisplayName: "Media"},
			{ID: ids["tagHomelab"], Slug: "home-lab", DisplayName: "Home Lab"},
		},
		Groups: []Group{
			{ID: ids["groupHome"], Name: "Home Lab!", TargetIDs: []uuid.UUID{ids["proxmox"], ids["nas"], ids["offsite"]}},
		},
		Direct: []DirectAttachment{
			{TargetID: ids["nas"], TagID: ids["tagMedia"]},
			{TargetID: ids["proxmox"], TagID: ids["tagMedia"]},
			{TargetID: ids["offsite"], TagID: ids["tagMedia"]}, // stale target
			{TargetID: ids["proxmox"], TagID: ids["tagProxmox"]},
		},
	}
	return s, ids
}

func TestAttachmentsForTagOrigins(t *testing.T) {
	s, ids := testSnapshot()

	t.Run("auto plus direct on the same pair stay separate rows", func(t *testing.T) {
		rows := s.AttachmentsForTag(ids["tagProxmox"])
		require.Len(t, rows, 2)
		assert.Equal(t, OriginAuto, rows[0].Origin)
		assert.Equal(t, "proxmox", rows[0].Target.Slug)
		assert.Equal(t, OriginDirect, rows[1].Origin)
		assert.Equal(t, "proxmox", rows[1].Target.Slug)
	})

	t.Run("direct rows keep attachment order, stale target omitted", func(t *testing.T) {
		rows := s.AttachmentsForTag(ids["tagMedia"])
		require.Len(t, rows, 2)
		assert.Equal(t, "nas", rows[0].Target.Slug)
		assert.Equal(t, "proxmox", rows[1].Target.Slug)
		for _, r := range rows {
			assert.Equal(t, OriginDirect, r.Origin)
			assert.Nil(t, r.SourceGroupID)
		}
	})

	t.Run("group derived rows carry source group id", func(t *testing.T) {
		rows := s.AttachmentsForTag(ids["tagHomelab"])
		require.Len(t, rows, 2) // stale offsite member omitted
		for _, r := range rows {
			assert.Equal(t, OriginGroup, r.Origin)
			require.NotNil(t, r.SourceGroupID)
			assert.Equal(t, ids["groupHome"], *r.SourceGroupID)
		}
		assert.Equal(t, "proxmox", rows[0].Target.Slug)
		assert.Equal(t, "nas", rows[1].Target.Slug)
	})

	t.Run("unknown tag yields no rows", func(t *testing.T) {
		assert.Empty(t, s.AttachmentsForTag(uuid.New()))
	})
}

func TestTagsForTarget(t *testing.T) {
	s, ids := testSnapshot()

	rows := s.TagsForTarget(ids["proxmox"])
	require.Len(t, rows, 4)

	assert.Equal(t, OriginAuto, rows[0].Origin)
	assert.Equal(t, "proxmox", rows[0].Tag.Slug)

	assert.Equal(t, OriginDirect, rows[1].Origin)
	assert.Equal(t, "media", rows[1].Tag.Slug)
	assert.Equal(t, OriginDirect, rows[2].Origin)
	assert.Equal(t, "proxmox", rows[2].Tag.Slug)

	assert.Equal(t, OriginGroup, rows[3].Origin)
	assert.Equal(t, "home-lab", rows[3].Tag.Slug)
	require.NotNil(t, rows[3].SourceGroupID)
	assert.Equal(t, ids["groupHome"], *rows[3].SourceGroupID)
}

func TestIsAutoTag(t *testing.T) {
	s, _ := testSnapshot()

	assert.True(t, s.IsAutoTag(Tag{Slug: "proxmox"}), "matches a target slug")
	assert.True(t, s.IsAutoTag(Tag{Slug: "home-lab"}), "matches a slugified group name")
	assert.False(t, s.IsAutoTag(Tag{Slug: "media"}))
}
