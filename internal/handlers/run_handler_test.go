package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRunHandler(nil)
	router := gin.New()
	router.POST("/runs/:id/result", handler.IngestRunResult)
	return router
}

// The callback only accepts terminal statuses; anything else is rejected
// before any row is touched.
func TestIngestRunResultValidation(t *testing.T) {
	router := runRouter()

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "invalid run id",
			path:     "/runs/not-a-uuid/result",
			body:     `{"status":"completed"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing status",
			path:     "/runs/b1a7c3de-0000-4000-8000-000000000002/result",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non terminal status",
			path:     "/runs/b1a7c3de-0000-4000-8000-000000000002/result",
			body:     `{"status":"running"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
