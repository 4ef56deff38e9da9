package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
)

type RunService struct {
	db *gorm.DB
}

func NewRunService(db *gorm.DB) *RunService {
	return &RunService{db: db}
}

// ListRuns retrieves runs with pagination, newest first, optionally
// filtered by job and status
func (s *RunService) ListRuns(offset, limit int, jobID *uuid.UUID, status string) ([]*models.Run, int64, error) {
	var runs []*models.Run
	var total int64

	query := s.db.Model(&models.Run{})
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("started_at DESC").Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// GetRunByID retrieves a run with its per-target results
func (s *RunService) GetRunByID(runID uuid.UUID) (*models.Run, error) {
	var run models.Run
	if err := s.db.Preload("TargetRuns").First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("run not found")
		}
		return nil, err
	}
	return &run, nil
}

// newScheduledRun builds the history record for a run id the console has
// not seen: the engine owns the scheduler, so an unknown id is a scheduled
// execution and the engine allocates the id.
func newScheduledRun(runID uuid.UUID, jobID *uuid.UUID) *models.Run {
	return &models.Run{
		ID:      runID,
		JobID:   jobID,
		Status:  models.RunStatusRunning,
		Trigger: "scheduled",
	}
}

// EnsureRun returns the run with the given id, creating a scheduled-run
// record when the engine reports an id the console has not seen. Manually
// triggered runs already exist by the time the engine reports back.
func (s *RunService) EnsureRun(runID uuid.UUID, jobID *uuid.UUID) (*models.Run, error) {
	var run models.Run
	err := s.db.First(&run, runID).Error
	if err == nil {
		return &run, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := newScheduledRun(runID, jobID)
	if err := s.db.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// RecordRunResult applies a status report from the execution engine to a
// run. The console never fabricates results; this is the engine's one write
// path into run history.
func (s *RunService) RecordRunResult(runID uuid.UUID, status, errorMsg string) error {
	if status != models.RunStatusCompleted && status != models.RunStatusFailed {
		return errors.New("invalid run status")
	}

	updates := map[string]interface{}{
		"status":       status,
		"completed_at": time.Now(),
	}
	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	result := s.db.Model(&models.Run{}).Where("id = ?", runID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("run not found")
	}
	return nil
}

// RecordTargetRunResult upserts one target's result within a run
func (s *RunService) RecordTargetRunResult(runID uuid.UUID, targetID *uuid.UUID, status, artifactKey string, sizeBytes int64, errorMsg string) error {
	var run models.Run
	if err := s.db.First(&run, runID).Error; err != nil {
		return errors.New("run not found")
	}

	tr := &models.TargetRun{
		RunID:       runID,
		TargetID:    targetID,
		Status:      status,
		ArtifactKey: artifactKey,
		SizeBytes:   sizeBytes,
	}
	if status == models.RunStatusCompleted || status == models.RunStatusFailed {
		now := time.Now()
		tr.CompletedAt = &now
	}
	if errorMsg != "" {
		tr.ErrorMessage = errorMsg
	}
	return s.db.Create(tr).Error
}

// GetRunStats returns aggregate statistics over run history
func (s *RunService) GetRunStats() (map[string]interface{}, error) {
	var totalCount int64
	var completedCount int64
	var failedCount int64
	var totalSize int64

	s.db.Model(&models.Run{}).Count(&totalCount)
	s.db.Model(&models.Run{}).Where("status = ?", models.RunStatusCompleted).Count(&completedCount)
	s.db.Model(&models.Run{}).Where("status = ?", models.RunStatusFailed).Count(&failedCount)
	s.db.Model(&models.TargetRun{}).Where("status = ?", models.RunStatusCompleted).
		Select("COALESCE(SUM(size_bytes), 0)").Scan(&totalSize)

	var latest models.Run
	var latestDate *time.Time
	err := s.db.Where("status = ?", models.RunStatusCompleted).Order("completed_at DESC").First(&latest).Error
	if err == nil && latest.CompletedAt != nil {
		latestDate = latest.CompletedAt
	}

	stats := map[string]interface{}{
		"total_runs":       totalCount,
		"completed_runs":   completedCount,
		"failed_runs":      failedCount,
		"total_size_bytes": totalSize,
		"latest_run":       latestDate,
	}
	return stats, nil
}
