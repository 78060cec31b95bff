package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		message    string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"default message", http.StatusNotFound, "", http.StatusNotFound, ErrCodeNotFound, "Resource not found"},
		{"custom message", http.StatusBadRequest, "bad id", http.StatusBadRequest, ErrCodeInvalidInput, "bad id"},
		{"forbidden", http.StatusForbidden, "", http.StatusForbidden, ErrCodeNotOwner, "You do not own this resource"},
		{"unknown status", http.StatusTeapot, "", http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := New(tt.status, tt.message)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestRespondAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		Unauthorized(c, "")
	}, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeUnauthorized, body.Code)
}
