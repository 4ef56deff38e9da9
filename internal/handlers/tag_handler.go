package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/packrat-backup/packrat/internal/services"
	"github.com/packrat-backup/packrat/pkg/validation"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags returns all tags with their auto flag
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, autoFlags, err := h.tagService.GetAllTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	rows := make([]gin.H, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, gin.H{
			"id":           t.ID,
			"slug":         t.Slug,
			"display_name": t.DisplayName,
			"is_auto":      autoFlags[t.ID],
			"created_at":   t.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": rows})
}

// CreateTag creates a direct (user-defined) tag
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validation.ValidateName(req.DisplayName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag name"})
		return
	}

	tag, err := h.tagService.CreateTag(req.DisplayName)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// DeleteTag deletes a tag. Auto tags and tags with dependent jobs are
// refused.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if err := h.tagService.DeleteTag(tagID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

// GetTagTargets resolves the tag's attachment set: which targets carry it
// and why. A target appears once per origin.
func (h *TagHandler) GetTagTargets(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if _, err := h.tagService.GetTagByID(tagID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	attachments, err := h.tagService.AttachmentsForTag(tagID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve attachments"})
		return
	}

	rows := make([]gin.H, 0, len(attachments))
	for _, a := range attachments {
		row := gin.H{
			"target_id":   a.Target.ID,
			"target_name": a.Target.Name,
			"target_slug": a.Target.Slug,
			"origin":      a.Origin,
		}
		if a.SourceGroupID != nil {
			row["source_group_id"] = a.SourceGroupID
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"targets": rows})
}

// AttachTarget attaches a tag directly to a target
func (h *TagHandler) AttachTarget(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	var req struct {
		TargetID uuid.UUID `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tagService.AttachDirect(req.TargetID, tagID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag attached"})
}

// DetachTarget removes a direct attachment. Auto and group attachments are
// derived and cannot be detached here.
func (h *TagHandler) DetachTarget(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	targetID, err := uuid.Parse(c.Param("targetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	if err := h.tagService.DetachDirect(targetID, tagID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag detached"})
}
