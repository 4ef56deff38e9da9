package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
)

type RestoreService struct {
	db    *gorm.DB
	s3Svc *S3Service
}

func NewRestoreService(db *gorm.DB, s3Svc *S3Service) *RestoreService {
	return &RestoreService{db: db, s3Svc: s3Svc}
}

// ListRestores retrieves restore records with pagination, newest first
func (s *RestoreService) ListRestores(offset, limit int) ([]*models.Restore, int64, error) {
	var restores []*models.Restore
	var total int64

	if err := s.db.Model(&models.Restore{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.db.Offset(offset).Limit(limit).Order("started_at DESC").Find(&restores).Error; err != nil {
		return nil, 0, err
	}
	return restores, total, nil
}

// GetRestoreByID retrieves a restore record
func (s *RestoreService) GetRestoreByID(restoreID uuid.UUID) (*models.Restore, error) {
	var restore models.Restore
	if err := s.db.First(&restore, restoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("restore not found")
		}
		return nil, err
	}
	return &restore, nil
}

// ArtifactDownloadURL hands out a short-lived presigned link for the
// restore's artifact in the mirror bucket.
func (s *RestoreService) ArtifactDownloadURL(ctx context.Context, restoreID uuid.UUID) (string, error) {
	restore, err := s.GetRestoreByID(restoreID)
	if err != nil {
		return "", err
	}
	if restore.ArtifactKey == "" {
		return "", errors.New("restore has no artifact")
	}
	return s.s3Svc.PresignArtifactGet(ctx, restore.ArtifactKey, 15*time.Minute)
}
