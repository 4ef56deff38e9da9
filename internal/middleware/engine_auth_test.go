package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/packrat-backup/packrat/internal/config"
)

func engineAuthRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{EngineCallbackToken: token}
	router := gin.New()
	router.POST("/runs/result", EngineAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestEngineAuth(t *testing.T) {
	router := engineAuthRouter("s3cret-token")

	t.Run("missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/runs/result", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/runs/result", nil)
		req.Header.Set(EngineTokenHeader, "guessed")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("matching token passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/runs/result", nil)
		req.Header.Set(EngineTokenHeader, "s3cret-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// With no token configured the callback is closed entirely; an empty header
// must not match an empty configured token.
func TestEngineAuthUnconfigured(t *testing.T) {
	router := engineAuthRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs/result", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/runs/result", nil)
	req.Header.Set(EngineTokenHeader, "")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
