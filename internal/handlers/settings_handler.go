package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/packrat-backup/packrat/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetRetentionPolicy returns the global retention policy, both as stored
// and as resolved tiers
func (h *SettingsHandler) GetRetentionPolicy(c *gin.Context) {
	raw, tiers, err := h.settingsService.GetGlobalRetentionPolicy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load retention policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retention_policy_json": raw,
		"retention":             tiers,
	})
}

// UpdateRetentionPolicy replaces the global retention policy. A null policy
// disables global retention entirely.
func (h *SettingsHandler) UpdateRetentionPolicy(c *gin.Context) {
	var req struct {
		RetentionPolicyJSON *string `json:"retention_policy_json"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.settingsService.SetGlobalRetentionPolicy(req.RetentionPolicyJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, tiers, err := h.settingsService.GetGlobalRetentionPolicy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload retention policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retention_policy_json": stored,
		"retention":             tiers,
	})
}
