package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func groupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewGroupHandler(nil)
	router := gin.New()
	router.DELETE("/groups/:id/targets", handler.RemoveMembers)
	return router
}

// Membership removal takes an id list in the body, mirroring the add side.
func TestRemoveMembersValidation(t *testing.T) {
	router := groupRouter()

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "invalid group id",
			path:     "/groups/not-a-uuid/targets",
			body:     `{"target_ids":["b1a7c3de-0000-4000-8000-000000000001"]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing id list",
			path:     "/groups/b1a7c3de-0000-4000-8000-000000000001/targets",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			path:     "/groups/b1a7c3de-0000-4000-8000-000000000001/targets",
			body:     `{"target_ids":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
