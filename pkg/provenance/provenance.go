// Package provenance computes why a target carries a tag. A tag can be
// attached implicitly because its slug equals a target's slug (AUTO),
// explicitly by the operator (DIRECT), or inherited through group
// membership (GROUP). The resolver works over a caller-supplied snapshot of
// the loaded collections; because the collections may have been fetched at
// different times, dangling references are omitted rather than treated as
// errors.
package provenance

import (
	"github.com/google/uuid"

	"github.com/packrat-backup/packrat/pkg/slug"
)

// Origin is the provenance kind of a (target, tag) attachment. It is a
// property of the attachment row, never of the target or tag itself: the
// same pair can hold one attachment of each kind it qualifies for.
type Origin string

const (
	OriginAuto   Origin = "AUTO"
	OriginDirect Origin = "DIRECT"
	OriginGroup  Origin = "GROUP"
)

// Target is the slice of a backup target the resolver needs.
type Target struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// Tag is a named label addressing a set of targets.
type Tag struct {
	ID          uuid.UUID
	Slug        string
	DisplayName string
}

// Group is a named collection of targets. TargetIDs preserves membership
// insertion order.
type Group struct {
	ID        uuid.UUID
	Name      string
	TargetIDs []uuid.UUID
}

// DirectAttachment is an explicit operator-created target to tag link.
type DirectAttachment struct {
	TargetID uuid.UUID
	TagID    uuid.UUID
}

// Snapshot is a point-in-time view of the collections the resolver consumes.
// The slices may be partially stale relative to each other.
type Snapshot struct {
	Targets []Target
	Tags    []Tag
	Groups  []Group
	Direct  []DirectAttachment
}

// Attachment is one provenance row for a tag: the target carrying the tag,
// why, and (for GROUP only) the group it was inherited through.
type Attachment struct {
	Target        Target
	Origin        Origin
	SourceGroupID *uuid.UUID
}

// TagAttachment is the per-target view: one row per tag the target carries,
// per origin.
type TagAttachment struct {
	Tag           Tag
	Origin        Origin
	SourceGroupID *uuid.UUID
}

func (s *Snapshot) targetByID(id uuid.UUID) (Target, bool) {
	for _, t := range s.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

func (s *Snapshot) tagByID(id uuid.UUID) (Tag, bool) {
	for _, t := range s.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// AttachmentsForTag lists every target attached to the given tag with its
// provenance, preserving the insertion order of each source slice: AUTO rows
// in target order, DIRECT rows in attachment order, GROUP rows in group then
// membership order. Stale references are skipped.
func (s *Snapshot) AttachmentsForTag(tagID uuid.UUID) []Attachment {
	tag, ok := s.tagByID(tagID)
	if !ok {
		return nil
	}

	var rows []Attachment
	for _, t := range s.Targets {
		if t.Slug == tag.Slug {
			rows = append(rows, Attachment{Target: t, Origin: OriginAuto})
		}
	}
	for _, d := range s.Direct {
		if d.TagID != tagID {
			continue
		}
		t, found := s.targetByID(d.TargetID)
		if !found {
			continue
		}
		rows = append(rows, Attachment{Target: t, Origin: OriginDirect})
	}
	for _, g := range s.Groups {
		if slug.Make(g.Name) != tag.Slug {
			continue
		}
		gid := g.ID
		for _, targetID := range g.TargetIDs {
			t, found := s.targetByID(targetID)
			if !found {
				continue
			}
			rows = append(rows, Attachment{Target: t, Origin: OriginGroup, SourceGroupID: &gid})
		}
	}
	return rows
}

// TagsForTarget lists every tag the target carries with per-row provenance.
func (s *Snapshot) TagsForTarget(targetID uuid.UUID) []TagAttachment {
	target, ok := s.targetByID(targetID)
	if !ok {
		return nil
	}

	var rows []TagAttachment
	for _, tag := range s.Tags {
		if tag.Slug == target.Slug {
			rows = append(rows, TagAttachment{Tag: tag, Origin: OriginAuto})
		}
	}
	for _, d := range s.Direct {
		if d.TargetID != targetID {
			continue
		}
		tag, found := s.tagByID(d.TagID)
		if !found {
			continue
		}
		rows = append(rows, TagAttachment{Tag: tag, Origin: OriginDirect})
	}
	for _, g := range s.Groups {
		if !containsID(g.TargetIDs, targetID) {
			continue
		}
		groupSlug := slug.Make(g.Name)
		gid := g.ID
		for _, tag := range s.Tags {
			if tag.Slug == groupSlug {
				rows = append(rows, TagAttachment{Tag: tag, Origin: OriginGroup, SourceGroupID: &gid})
			}
		}
	}
	return rows
}

// IsAutoTag reports whether the tag is implicit: its slug equals some
// target's slug or the slugified name of some group. AUTO tags are not
// deletable while their source exists; this gates the destructive UI action
// only, it says nothing about DIRECT or GROUP attachments on the same tag.
func (s *Snapshot) IsAutoTag(tag Tag) bool {
	for _, t := range s.Targets {
		if t.Slug == tag.Slug {
			return true
		}
	}
	for _, g := range s.Groups {
		if slug.Make(g.Name) == tag.Slug {
			return true
		}
	}
	return false
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
