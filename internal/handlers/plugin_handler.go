package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/packrat-backup/packrat/internal/services"
)

// PluginHandler proxies the engine's plugin registry so the console only
// ever talks to this API.
type PluginHandler struct {
	registry services.PluginRegistry
}

func NewPluginHandler(registry services.PluginRegistry) *PluginHandler {
	return &PluginHandler{registry: registry}
}

// ListPlugins returns the available backup plugins
func (h *PluginHandler) ListPlugins(c *gin.Context) {
	plugins, err := h.registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Plugin registry unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plugins": plugins})
}

// GetPluginSchema returns the JSON config schema for a plugin
func (h *PluginHandler) GetPluginSchema(c *gin.Context) {
	schema, err := h.registry.Schema(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", schema)
}

// TestPlugin forwards a connectivity test with the supplied config
func (h *PluginHandler) TestPlugin(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be valid JSON"})
		return
	}

	result, err := h.registry.Test(c.Request.Context(), c.Param("key"), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}
