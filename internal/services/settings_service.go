package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/retention"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetGlobalRetentionPolicy returns the stored global policy JSON (nil when
// unset, meaning retain everything) together with its tier view.
func (s *SettingsService) GetGlobalRetentionPolicy() (*string, retention.Tiers, error) {
	var setting models.SystemSetting
	err := s.db.Where("key = ?", models.SettingGlobalRetentionPolicy).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, retention.DefaultTiers(), nil
	}
	if err != nil {
		return nil, retention.DefaultTiers(), err
	}

	if setting.Value == "" {
		return nil, retention.DefaultTiers(), nil
	}
	raw := setting.Value
	return &raw, retention.Parse(&raw), nil
}

// SetGlobalRetentionPolicy stores the normalized policy JSON. A degenerate
// policy clears the setting entirely.
func (s *SettingsService) SetGlobalRetentionPolicy(raw *string) (*string, error) {
	normalized := retention.Normalize(raw)

	var setting models.SystemSetting
	err := s.db.Where("key = ?", models.SettingGlobalRetentionPolicy).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if normalized == nil {
			return nil, nil
		}
		setting = models.SystemSetting{Key: models.SettingGlobalRetentionPolicy, Value: *normalized}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return normalized, nil
	}
	if err != nil {
		return nil, err
	}

	if normalized == nil {
		if err := s.db.Delete(&setting).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.db.Model(&setting).Update("value", *normalized).Error; err != nil {
		return nil, err
	}
	return normalized, nil
}
