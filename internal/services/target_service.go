package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/slug"
	"github.com/packrat-backup/packrat/pkg/validation"
)

// ErrTargetHasJobs is returned when deletion is refused because jobs still
// address the target through its AUTO tag.
var ErrTargetHasJobs = errors.New("cannot delete target with dependent jobs")

type TargetService struct {
	db *gorm.DB
}

func NewTargetService(db *gorm.DB) *TargetService {
	return &TargetService{db: db}
}

// GetDB returns the database instance
func (s *TargetService) GetDB() *gorm.DB {
	return s.db
}

// CreateTarget creates a target and its implicit AUTO tag. The slug is
// derived from the name and uniquified with a numeric suffix on collision;
// it is fixed for the target's lifetime.
func (s *TargetService) CreateTarget(name, pluginName string, pluginConfigJSON *string) (*models.Target, error) {
	name = validation.SanitizeString(name)
	if !validation.ValidateName(name) {
		return nil, errors.New("invalid target name")
	}

	target := &models.Target{
		Name:             name,
		PluginName:       pluginName,
		PluginConfigJSON: pluginConfigJSON,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		uniqueSlug, err := s.uniqueSlug(tx, slug.Make(name))
		if err != nil {
			return err
		}
		target.Slug = uniqueSlug

		if err := tx.Create(target).Error; err != nil {
			return err
		}
		return upsertAutoTag(tx, target.Slug, target.Name)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateTarget updates a target's name and plugin settings. The slug stays
// fixed so jobs addressing the target's AUTO tag keep resolving; only the
// tag's display name follows the rename.
func (s *TargetService) UpdateTarget(targetID uuid.UUID, updates map[string]interface{}) (*models.Target, error) {
	var target models.Target
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("target not found")
		}
		return nil, err
	}

	if v, ok := updates["name"].(string); ok {
		v = validation.SanitizeString(v)
		if !validation.ValidateName(v) {
			return nil, errors.New("invalid target name")
		}
		target.Name = v
	}
	if v, ok := updates["plugin_name"].(string); ok {
		target.PluginName = v
	}
	if v, ok := updates["plugin_config_json"].(*string); ok {
		target.PluginConfigJSON = v
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&target).Error; err != nil {
			return err
		}
		return upsertAutoTag(tx, target.Slug, target.Name)
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// GetTargetByID retrieves a target by ID
func (s *TargetService) GetTargetByID(targetID uuid.UUID) (*models.Target, error) {
	var target models.Target
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("target not found")
		}
		return nil, err
	}
	return &target, nil
}

// GetAllTargets retrieves all targets with pagination
func (s *TargetService) GetAllTargets(offset, limit int) ([]*models.Target, int64, error) {
	var targets []*models.Target
	var total int64

	if err := s.db.Model(&models.Target{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.db.Offset(offset).Limit(limit).Order("created_at ASC").Find(&targets).Error; err != nil {
		return nil, 0, err
	}
	return targets, total, nil
}

// DeleteTarget deletes a target. Deletion is refused while jobs still
// address the target through its AUTO tag; direct attachments and group
// memberships are cleaned up, but the tag itself is left in place (it is
// simply no longer AUTO once its source is gone).
func (s *TargetService) DeleteTarget(targetID uuid.UUID) error {
	var target models.Target
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("target not found")
		}
		return err
	}

	var jobCount int64
	err := s.db.Model(&models.Job{}).
		Joins("JOIN tags ON tags.id = jobs.tag_id").
		Where("tags.slug = ?", target.Slug).
		Count(&jobCount).Error
	if err != nil {
		return err
	}
	if jobCount > 0 {
		return ErrTargetHasJobs
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_id = ?", targetID).Delete(&models.TagAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_id = ?", targetID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Target{}, targetID).Error
	})
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *TargetService) uniqueSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&models.Target{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// upsertAutoTag makes sure the implicit tag matching targetSlug exists and
// mirrors the source's display name.
func upsertAutoTag(tx *gorm.DB, tagSlug, displayName string) error {
	var tag models.Tag
	err := tx.Where("slug = ?", tagSlug).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Tag{Slug: tagSlug, DisplayName: displayName}).Error
	}
	if err != nil {
		return err
	}
	if tag.DisplayName != displayName {
		return tx.Model(&tag).Update("display_name", displayName).Error
	}
	return nil
}
