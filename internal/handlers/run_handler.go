package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/internal/services"
)

type RunHandler struct {
	runService *services.RunService
}

func NewRunHandler(runService *services.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// ListRuns returns run history, optionally filtered by job and status
func (h *RunHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var jobID *uuid.UUID
	if raw := c.Query("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
			return
		}
		jobID = &id
	}

	runs, total, err := h.runService.ListRuns((page-1)*limit, limit, jobID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetRun returns a run with its per-target results
func (h *RunHandler) GetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
		return
	}

	run, err := h.runService.GetRunByID(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetStats returns aggregate run statistics for the dashboard
func (h *RunHandler) GetStats(c *gin.Context) {
	stats, err := h.runService.GetRunStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// IngestRunResult records a run outcome reported by the engine
func (h *RunHandler) IngestRunResult(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
		return
	}

	var req struct {
		JobID        *uuid.UUID `json:"job_id"`
		Status       string     `json:"status" binding:"required"`
		ErrorMessage string     `json:"error_message"`
		TargetRuns   []struct {
			TargetID     *uuid.UUID `json:"target_id"`
			Status       string     `json:"status"`
			ArtifactKey  string     `json:"artifact_key"`
			SizeBytes    int64      `json:"size_bytes"`
			ErrorMessage string     `json:"error_message"`
		} `json:"target_runs"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != models.RunStatusCompleted && req.Status != models.RunStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run status"})
		return
	}

	// Unknown run ids are scheduled executions: the engine owns the
	// scheduler, so it is the first party to mention them.
	if _, err := h.runService.EnsureRun(runID, req.JobID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record run"})
		return
	}

	for _, tr := range req.TargetRuns {
		if err := h.runService.RecordTargetRunResult(runID, tr.TargetID, tr.Status, tr.ArtifactKey, tr.SizeBytes, tr.ErrorMessage); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record target result"})
			return
		}
	}

	if err := h.runService.RecordRunResult(runID, req.Status, req.ErrorMessage); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record run result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Run result recorded"})
}
