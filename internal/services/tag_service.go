package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/provenance"
	"github.com/packrat-backup/packrat/pkg/slug"
	"github.com/packrat-backup/packrat/pkg/validation"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// GetDB returns the database instance
func (s *TagService) GetDB() *gorm.DB {
	return s.db
}

// LoadSnapshot reads the collections the provenance resolver operates on.
// The result is a point-in-time view; resolver lookups tolerate rows that
// went away between reads.
func (s *TagService) LoadSnapshot() (*provenance.Snapshot, error) {
	snap := &provenance.Snapshot{}

	var targets []models.Target
	if err := s.db.Order("created_at ASC").Find(&targets).Error; err != nil {
		return nil, err
	}
	for _, t := range targets {
		snap.Targets = append(snap.Targets, provenance.Target{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}

	var tags []models.Tag
	if err := s.db.Order("created_at ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	for _, t := range tags {
		snap.Tags = append(snap.Tags, provenance.Tag{ID: t.ID, Slug: t.Slug, DisplayName: t.DisplayName})
	}

	var groups []models.Group
	if err := s.db.Order("created_at ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	var members []models.GroupMember
	if err := s.db.Order("position ASC, created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	for _, g := range groups {
		pg := provenance.Group{ID: g.ID, Name: g.Name}
		for _, m := range members {
			if m.GroupID == g.ID {
				pg.TargetIDs = append(pg.TargetIDs, m.TargetID)
			}
		}
		snap.Groups = append(snap.Groups, pg)
	}

	var attachments []models.TagAttachment
	if err := s.db.Order("created_at ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	for _, a := range attachments {
		snap.Direct = append(snap.Direct, provenance.DirectAttachment{TargetID: a.TargetID, TagID: a.TagID})
	}

	return snap, nil
}

// GetAllTags retrieves all tags, each flagged with whether it is AUTO
// (implicit, not deletable while its source exists).
func (s *TagService) GetAllTags() ([]*models.Tag, map[uuid.UUID]bool, error) {
	var tags []*models.Tag
	if err := s.db.Order("created_at ASC").Find(&tags).Error; err != nil {
		return nil, nil, err
	}

	snap, err := s.LoadSnapshot()
	if err != nil {
		return nil, nil, err
	}

	auto := make(map[uuid.UUID]bool, len(tags))
	for _, t := range tags {
		auto[t.ID] = snap.IsAutoTag(provenance.Tag{ID: t.ID, Slug: t.Slug, DisplayName: t.DisplayName})
	}
	return tags, auto, nil
}

// GetTagByID retrieves a tag by ID
func (s *TagService) GetTagByID(tagID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates an explicit tag from a display name
func (s *TagService) CreateTag(displayName string) (*models.Tag, error) {
	displayName = validation.SanitizeString(displayName)
	if !validation.ValidateName(displayName) {
		return nil, errors.New("invalid tag name")
	}

	tagSlug := slug.Make(displayName)
	var existing models.Tag
	if err := s.db.Where("slug = ?", tagSlug).First(&existing).Error; err == nil {
		return nil, errors.New("tag already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &models.Tag{Slug: tagSlug, DisplayName: displayName}
	if err := s.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes a tag. AUTO tags are refused while the matching target
// or group still exists. Jobs addressing the tag block deletion the same
// way dependent jobs block target deletion.
func (s *TagService) DeleteTag(tagID uuid.UUID) error {
	tag, err := s.GetTagByID(tagID)
	if err != nil {
		return err
	}

	snap, err := s.LoadSnapshot()
	if err != nil {
		return err
	}
	if snap.IsAutoTag(provenance.Tag{ID: tag.ID, Slug: tag.Slug, DisplayName: tag.DisplayName}) {
		return errors.New("cannot delete an implicit tag while its target or group exists")
	}

	var jobCount int64
	if err := s.db.Model(&models.Job{}).Where("tag_id = ?", tagID).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount > 0 {
		return errors.New("cannot delete tag with dependent jobs")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&models.TagAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, tagID).Error
	})
}

// AttachmentsForTag resolves the provenance rows for one tag: every target
// carrying it, with origin and (for GROUP rows) the source group id.
func (s *TagService) AttachmentsForTag(tagID uuid.UUID) ([]provenance.Attachment, error) {
	snap, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.AttachmentsForTag(tagID), nil
}

// TagsForTarget resolves the provenance rows for one target.
func (s *TagService) TagsForTarget(targetID uuid.UUID) ([]provenance.TagAttachment, error) {
	snap, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.TagsForTarget(targetID), nil
}

// AttachDirect creates an explicit target -> tag attachment
func (s *TagService) AttachDirect(targetID, tagID uuid.UUID) error {
	var target models.Target
	if err := s.db.First(&target, targetID).Error; err != nil {
		return errors.New("target not found")
	}
	var tag models.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		return errors.New("tag not found")
	}

	var existing models.TagAttachment
	err := s.db.Where("target_id = ? AND tag_id = ?", targetID, tagID).First(&existing).Error
	if err == nil {
		// At most one DIRECT record per pair; AUTO/GROUP origins on the
		// same pair are derived and unaffected.
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(&models.TagAttachment{TargetID: targetID, TagID: tagID}).Error
}

// DetachDirect removes an explicit attachment. Derived AUTO/GROUP rows for
// the same pair are untouched.
func (s *TagService) DetachDirect(targetID, tagID uuid.UUID) error {
	result := s.db.Where("target_id = ? AND tag_id = ?", targetID, tagID).Delete(&models.TagAttachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("attachment not found")
	}
	return nil
}
