package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/packrat-backup/packrat/internal/services"
	"github.com/packrat-backup/packrat/pkg/validation"
)

type TargetHandler struct {
	targetService *services.TargetService
	tagService    *services.TagService
}

func NewTargetHandler(targetService *services.TargetService, tagService *services.TagService) *TargetHandler {
	return &TargetHandler{
		targetService: targetService,
		tagService:    tagService,
	}
}

// ListTargets returns all backup targets, paginated
func (h *TargetHandler) ListTargets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	targets, total, err := h.targetService.GetAllTargets((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch targets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"targets": targets,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetTarget returns a single target
func (h *TargetHandler) GetTarget(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	target, err := h.targetService.GetTargetByID(targetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		return
	}

	c.JSON(http.StatusOK, target)
}

// CreateTarget registers a new backup target. The target's slug and its
// auto tag are derived from the name.
func (h *TargetHandler) CreateTarget(c *gin.Context) {
	var req struct {
		Name             string  `json:"name" binding:"required"`
		PluginName       string  `json:"plugin_name" binding:"required"`
		PluginConfigJSON *string `json:"plugin_config_json"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validation.ValidateName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target name"})
		return
	}

	target, err := h.targetService.CreateTarget(req.Name, req.PluginName, req.PluginConfigJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, target)
}

// UpdateTarget updates a target's name or plugin configuration. The slug is
// fixed at creation, so renames never move the auto tag.
func (h *TargetHandler) UpdateTarget(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	var req struct {
		Name             *string `json:"name"`
		PluginName       *string `json:"plugin_name"`
		PluginConfigJSON *string `json:"plugin_config_json"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		if !validation.ValidateName(*req.Name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target name"})
			return
		}
		updates["name"] = validation.SanitizeString(*req.Name)
	}
	if req.PluginName != nil {
		updates["plugin_name"] = *req.PluginName
	}
	if req.PluginConfigJSON != nil {
		updates["plugin_config_json"] = *req.PluginConfigJSON
	}

	target, err := h.targetService.UpdateTarget(targetID, updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, target)
}

// DeleteTarget removes a target unless jobs still depend on its auto tag
func (h *TargetHandler) DeleteTarget(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	if err := h.targetService.DeleteTarget(targetID); err != nil {
		if errors.Is(err, services.ErrTargetHasJobs) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Target deleted"})
}

// GetTargetTags returns every tag the target carries, one row per origin
func (h *TargetHandler) GetTargetTags(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	if _, err := h.targetService.GetTargetByID(targetID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		return
	}

	attachments, err := h.tagService.TagsForTarget(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tags"})
		return
	}

	rows := make([]gin.H, 0, len(attachments))
	for _, a := range attachments {
		row := gin.H{
			"tag_id":       a.Tag.ID,
			"slug":         a.Tag.Slug,
			"display_name": a.Tag.DisplayName,
			"origin":       a.Origin,
		}
		if a.SourceGroupID != nil {
			row["source_group_id"] = a.SourceGroupID
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"tags": rows})
}
