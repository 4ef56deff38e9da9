package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/config"
	"github.com/packrat-backup/packrat/internal/models"
)

// importExtensions are the archive suffixes recognized when scanning the
// import directory.
var importExtensions = []string{".tar.gz", ".sql.gz", ".zip", ".tar.zst"}

type ArtifactService struct {
	db    *gorm.DB
	cfg   *config.Config
	s3Svc *S3Service
}

func NewArtifactService(db *gorm.DB, cfg *config.Config, s3Svc *S3Service) *ArtifactService {
	return &ArtifactService{db: db, cfg: cfg, s3Svc: s3Svc}
}

// ImportFromDisk scans the configured import directory for backup archives,
// mirrors each into the artifact bucket and records an import run with one
// target-run row per file. Files already known by artifact key are skipped.
func (s *ArtifactService) ImportFromDisk(ctx context.Context) (int, error) {
	if s.cfg.ImportPath == "" {
		return 0, errors.New("import path not configured")
	}

	entries, err := os.ReadDir(s.cfg.ImportPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read import directory: %w", err)
	}

	var run *models.Run
	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !hasImportExtension(entry.Name()) {
			continue
		}

		key := fmt.Sprintf("imports/%s", entry.Name())

		var existing models.TargetRun
		err := s.db.Where("artifact_key = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return imported, err
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(s.cfg.ImportPath, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return imported, fmt.Errorf("failed to open %s: %w", entry.Name(), err)
		}
		uploadErr := s.s3Svc.UploadArtifact(ctx, key, f, "application/octet-stream")
		f.Close()
		if uploadErr != nil {
			return imported, fmt.Errorf("failed to upload %s: %w", entry.Name(), uploadErr)
		}

		// One import run covers the whole scan; created lazily so an empty
		// directory records nothing.
		if run == nil {
			run = &models.Run{Status: models.RunStatusCompleted, Trigger: "import"}
			now := time.Now()
			run.CompletedAt = &now
			if err := s.db.Create(run).Error; err != nil {
				return imported, err
			}
		}

		now := time.Now()
		tr := &models.TargetRun{
			RunID:       run.ID,
			Status:      models.RunStatusCompleted,
			ArtifactKey: key,
			SizeBytes:   info.Size(),
			StartedAt:   info.ModTime(),
			CompletedAt: &now,
		}
		if err := s.db.Create(tr).Error; err != nil {
			return imported, fmt.Errorf("failed to record import: %w", err)
		}
		imported++
	}

	return imported, nil
}

// SyncFromBucket reconciles artifact records against the mirror bucket:
// objects with no matching target-run row get one, attached to a synthetic
// completed import run. Lets the console pick up artifacts written by the
// engine while the console was down.
func (s *ArtifactService) SyncFromBucket(ctx context.Context) (int, error) {
	if s.cfg.ArtifactBucket == "" {
		return 0, errors.New("artifact bucket not configured")
	}

	objects, err := s.s3Svc.ListArtifacts(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list artifacts: %w", err)
	}

	var run *models.Run
	synced := 0
	for _, obj := range objects {
		if !hasImportExtension(obj.Key) {
			continue
		}

		var existing models.TargetRun
		err := s.db.Where("artifact_key = ?", obj.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return synced, err
		}

		if run == nil {
			run = &models.Run{Status: models.RunStatusCompleted, Trigger: "import"}
			now := time.Now()
			run.CompletedAt = &now
			if err := s.db.Create(run).Error; err != nil {
				return synced, err
			}
		}

		completed := obj.LastModified
		tr := &models.TargetRun{
			RunID:       run.ID,
			Status:      models.RunStatusCompleted,
			ArtifactKey: obj.Key,
			SizeBytes:   obj.SizeBytes,
			StartedAt:   obj.LastModified,
			CompletedAt: &completed,
		}
		if err := s.db.Create(tr).Error; err != nil {
			return synced, fmt.Errorf("failed to record artifact: %w", err)
		}
		synced++
	}

	return synced, nil
}

func hasImportExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range importExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
