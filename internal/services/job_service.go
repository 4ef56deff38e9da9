package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/cadence"
	"github.com/packrat-backup/packrat/pkg/namegen"
	"github.com/packrat-backup/packrat/pkg/retention"
	"github.com/packrat-backup/packrat/pkg/validation"
)

type JobService struct {
	db         *gorm.DB
	dispatcher RunDispatcher
}

func NewJobService(db *gorm.DB, dispatcher RunDispatcher) *JobService {
	return &JobService{db: db, dispatcher: dispatcher}
}

// GetDB returns the database instance
func (s *JobService) GetDB() *gorm.DB {
	return s.db
}

// JobView decorates a job with the derived display values the console needs:
// the humanized schedule (empty for unrecognized cadences) and the effective
// retention tiers after override/global resolution.
type JobView struct {
	Job             *models.Job
	ScheduleHuman   string
	Retention       retention.Tiers
	RetentionSource string // "override" or "global"
}

// validateCron checks a 5-field cron expression with the scheduler's own
// parser, so nothing the external scheduler would reject ever reaches
// storage. Cadence classification is a separate, narrower concern: a valid
// expression may still humanize to nothing.
func validateCron(expr string) error {
	if !validation.ValidateCronFieldCount(expr) {
		return errors.New("schedule must be a 5-field cron expression")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// CreateJob creates a scheduled job addressing a tag
func (s *JobService) CreateJob(tagID uuid.UUID, name, scheduleCron string, enabled bool, retentionPolicyJSON *string) (*models.Job, error) {
	name = validation.SanitizeString(name)
	if !validation.ValidateName(name) {
		return nil, errors.New("invalid job name")
	}
	if err := validateCron(scheduleCron); err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := s.db.First(&tag, tagID).Error; err != nil {
		return nil, errors.New("tag not found")
	}

	job := &models.Job{
		TagID:               tagID,
		Name:                name,
		ScheduleCron:        scheduleCron,
		Enabled:             enabled,
		RetentionPolicyJSON: normalizePolicyJSON(retentionPolicyJSON),
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob updates a job's fields. retention_policy_json is all-or-nothing:
// passing nil clears the override and the job falls back to the global
// policy.
func (s *JobService) UpdateJob(jobID uuid.UUID, updates map[string]interface{}) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job not found")
		}
		return nil, err
	}

	if v, ok := updates["name"].(string); ok {
		v = validation.SanitizeString(v)
		if !validation.ValidateName(v) {
			return nil, errors.New("invalid job name")
		}
		job.Name = v
	}
	if v, ok := updates["schedule_cron"].(string); ok {
		if err := validateCron(v); err != nil {
			return nil, err
		}
		job.ScheduleCron = v
	}
	if v, ok := updates["enabled"].(bool); ok {
		job.Enabled = v
	}
	if v, ok := updates["tag_id"].(uuid.UUID); ok {
		var tag models.Tag
		if err := s.db.First(&tag, v).Error; err != nil {
			return nil, errors.New("tag not found")
		}
		job.TagID = v
	}
	if raw, present := updates["retention_policy_json"]; present {
		v, _ := raw.(*string)
		job.RetentionPolicyJSON = normalizePolicyJSON(v)
	}

	// Save with Select so clearing the retention override writes NULL.
	err := s.db.Model(&models.Job{}).Where("id = ?", jobID).
		Select("name", "schedule_cron", "enabled", "tag_id", "retention_policy_json").
		Updates(map[string]interface{}{
			"name":                  job.Name,
			"schedule_cron":         job.ScheduleCron,
			"enabled":               job.Enabled,
			"tag_id":                job.TagID,
			"retention_policy_json": job.RetentionPolicyJSON,
		}).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobByID retrieves a job by ID
func (s *JobService) GetJobByID(jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job not found")
		}
		return nil, err
	}
	return &job, nil
}

// GetAllJobs retrieves jobs with pagination, optionally filtered by tag
func (s *JobService) GetAllJobs(offset, limit int, tagID *uuid.UUID) ([]*models.Job, int64, error) {
	var jobs []*models.Job
	var total int64

	query := s.db.Model(&models.Job{})
	if tagID != nil {
		query = query.Where("tag_id = ?", *tagID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("created_at ASC").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// DeleteJob deletes a job
func (s *JobService) DeleteJob(jobID uuid.UUID) error {
	result := s.db.Delete(&models.Job{}, jobID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("job not found")
	}
	return nil
}

// decorateJob derives the display values for one job against the given
// global policy JSON.
func decorateJob(job *models.Job, globalPolicy *string) JobView {
	v := JobView{Job: job}
	if human, ok := cadence.Humanize(job.ScheduleCron); ok {
		v.ScheduleHuman = human
	}

	v.Retention = retention.Effective(job.RetentionPolicyJSON, globalPolicy)
	if job.RetentionPolicyJSON != nil {
		v.RetentionSource = "override"
	} else {
		v.RetentionSource = "global"
	}
	return v
}

// View decorates a job for display
func (s *JobService) View(job *models.Job) JobView {
	return decorateJob(job, s.globalPolicyJSON())
}

// Views decorates a page of jobs, reading the global policy setting once
// for the whole batch.
func (s *JobService) Views(jobs []*models.Job) []JobView {
	global := s.globalPolicyJSON()
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, decorateJob(job, global))
	}
	return views
}

// SuggestName derives a job name from the schedule's cadence prefix and the
// tag or target context, stripping any previously applied prefix so repeated
// suggestions never stack.
func (s *JobService) SuggestName(scheduleCron, contextName, previousName string) string {
	prefix := ""
	if c, ok := cadence.Classify(scheduleCron); ok {
		prefix = c.Prefix()
	}
	return namegen.Suggest(prefix, contextName, previousName)
}

// RunNow asks the execution engine to run the job immediately and records
// the pending run.
func (s *JobService) RunNow(ctx context.Context, jobID uuid.UUID) (*models.Run, error) {
	job, err := s.GetJobByID(jobID)
	if err != nil {
		return nil, err
	}

	run := &models.Run{JobID: &job.ID, Status: models.RunStatusRunning, Trigger: "manual"}
	if err := s.db.Create(run).Error; err != nil {
		return nil, err
	}

	if err := s.dispatcher.TriggerRun(ctx, job.ID, run.ID); err != nil {
		now := time.Now()
		s.db.Model(run).Updates(map[string]interface{}{
			"status":        models.RunStatusFailed,
			"error_message": err.Error(),
			"completed_at":  now,
		})
		return nil, fmt.Errorf("failed to dispatch run: %w", err)
	}
	return run, nil
}

// globalPolicyJSON reads the global retention policy setting; nil when unset.
func (s *JobService) globalPolicyJSON() *string {
	var setting models.SystemSetting
	if err := s.db.Where("key = ?", models.SettingGlobalRetentionPolicy).First(&setting).Error; err != nil {
		return nil
	}
	if setting.Value == "" {
		return nil
	}
	v := setting.Value
	return &v
}

// normalizePolicyJSON round-trips stored policy JSON through the resolver so
// the persisted payload is always the minimal normalized form; degenerate
// policies collapse to NULL.
func normalizePolicyJSON(raw *string) *string {
	return retention.Normalize(raw)
}
