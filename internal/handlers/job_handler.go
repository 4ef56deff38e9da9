package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/packrat-backup/packrat/internal/services"
	"github.com/packrat-backup/packrat/pkg/cadence"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func jobResponse(v services.JobView) gin.H {
	return gin.H{
		"id":                    v.Job.ID,
		"tag_id":                v.Job.TagID,
		"name":                  v.Job.Name,
		"schedule_cron":         v.Job.ScheduleCron,
		"schedule_human":        v.ScheduleHuman,
		"enabled":               v.Job.Enabled,
		"retention_policy_json": v.Job.RetentionPolicyJSON,
		"retention":             v.Retention,
		"retention_source":      v.RetentionSource,
		"created_at":            v.Job.CreatedAt,
		"updated_at":            v.Job.UpdatedAt,
	}
}

// ListJobs returns jobs, optionally filtered by tag
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var tagID *uuid.UUID
	if raw := c.Query("tag_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
			return
		}
		tagID = &id
	}

	jobs, total, err := h.jobService.GetAllJobs((page-1)*limit, limit, tagID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	views := h.jobService.Views(jobs)
	rows := make([]gin.H, 0, len(views))
	for _, v := range views {
		rows = append(rows, jobResponse(v))
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetJob returns a single job with its derived display values
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	job, err := h.jobService.GetJobByID(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, jobResponse(h.jobService.View(job)))
}

// CreateJob creates a scheduled job addressing a tag
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req struct {
		TagID               uuid.UUID `json:"tag_id" binding:"required"`
		Name                string    `json:"name" binding:"required"`
		ScheduleCron        string    `json:"schedule_cron" binding:"required"`
		Enabled             *bool     `json:"enabled"`
		RetentionPolicyJSON *string   `json:"retention_policy_json"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	job, err := h.jobService.CreateJob(req.TagID, req.Name, req.ScheduleCron, enabled, req.RetentionPolicyJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, jobResponse(h.jobService.View(job)))
}

// UpdateJob updates job fields. Setting retention_policy_json to null
// clears the override so the job falls back to the global policy.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if v, ok := req["name"].(string); ok {
		updates["name"] = v
	}
	if v, ok := req["schedule_cron"].(string); ok {
		updates["schedule_cron"] = v
	}
	if v, ok := req["enabled"].(bool); ok {
		updates["enabled"] = v
	}
	if v, ok := req["tag_id"].(string); ok {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
			return
		}
		updates["tag_id"] = id
	}
	// Present-but-null clears the override; absent leaves it alone.
	if raw, present := req["retention_policy_json"]; present {
		if s, ok := raw.(string); ok {
			updates["retention_policy_json"] = &s
		} else {
			updates["retention_policy_json"] = (*string)(nil)
		}
	}

	job, err := h.jobService.UpdateJob(jobID, updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, jobResponse(h.jobService.View(job)))
}

// DeleteJob deletes a job
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	if err := h.jobService.DeleteJob(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

// RunJob asks the engine to execute the job now
func (h *JobHandler) RunJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	run, err := h.jobService.RunNow(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run": run})
}

// SuggestName proposes a job name for a cron expression. The previous
// suggestion is passed back so cadence prefixes are replaced, not stacked.
func (h *JobHandler) SuggestName(c *gin.Context) {
	cronExpr := c.Query("cron")
	if cronExpr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cron query parameter required"})
		return
	}

	suggestion := h.jobService.SuggestName(cronExpr, c.Query("context"), c.Query("previous"))

	human := ""
	if s, ok := cadence.Humanize(cronExpr); ok {
		human = s
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion":     suggestion,
		"schedule_human": human,
	})
}
