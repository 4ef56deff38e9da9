package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/packrat-backup/packrat/internal/config"
)

// EngineTokenHeader carries the shared secret the execution engine presents
// when reporting run results.
const EngineTokenHeader = "X-Engine-Token"

// EngineAuth verifies the engine's shared callback token. The callback is
// the one write path into run history that bypasses admin auth, so it gets
// its own credential; with no token configured every callback is rejected.
func EngineAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.EngineCallbackToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Engine callback not configured"})
			c.Abort()
			return
		}

		token := c.GetHeader(EngineTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.EngineCallbackToken)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid engine token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
