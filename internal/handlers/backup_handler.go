package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/packrat-backup/packrat/internal/services"
)

type BackupHandler struct {
	artifactService *services.ArtifactService
}

func NewBackupHandler(artifactService *services.ArtifactService) *BackupHandler {
	return &BackupHandler{artifactService: artifactService}
}

// ImportFromDisk scans the import directory and registers any archives
// found there as import runs, mirroring them to the artifact bucket
func (h *BackupHandler) ImportFromDisk(c *gin.Context) {
	imported, err := h.artifactService.ImportFromDisk(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": imported})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Import complete",
		"imported": imported,
	})
}

// SyncFromBucket registers artifacts present in the bucket but unknown to
// the database
func (h *BackupHandler) SyncFromBucket(c *gin.Context) {
	synced, err := h.artifactService.SyncFromBucket(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "synced": synced})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sync complete",
		"synced":  synced,
	})
}
