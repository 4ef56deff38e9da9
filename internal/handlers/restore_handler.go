package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/packrat-backup/packrat/internal/services"
)

type RestoreHandler struct {
	restoreService *services.RestoreService
}

func NewRestoreHandler(restoreService *services.RestoreService) *RestoreHandler {
	return &RestoreHandler{restoreService: restoreService}
}

// ListRestores returns restore history
func (h *RestoreHandler) ListRestores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	restores, total, err := h.restoreService.ListRestores((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restores": restores,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetRestore returns a single restore record
func (h *RestoreHandler) GetRestore(c *gin.Context) {
	restoreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restore ID"})
		return
	}

	restore, err := h.restoreService.GetRestoreByID(restoreID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restore not found"})
		return
	}

	c.JSON(http.StatusOK, restore)
}

// GetDownloadURL returns a short-lived presigned URL for the restored
// artifact
func (h *RestoreHandler) GetDownloadURL(c *gin.Context) {
	restoreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restore ID"})
		return
	}

	url, err := h.restoreService.ArtifactDownloadURL(c.Request.Context(), restoreID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
