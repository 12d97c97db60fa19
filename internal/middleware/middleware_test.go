package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-barcode-generator/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAPIKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	log := logger.NewWithWriter(logger.LoggerConfig{Level: logger.INFO}, io.Discard)
	r := gin.New()
	r.Use(APIKeyAuth(string(hash), log))
	r.GET("/api/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		key    string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "MISSING_API_KEY"},
		{"wrong", "nope", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"valid", "s3cret", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
			}
		})
	}
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	r := gin.New()
	r.Use(APIKeyAuth("", nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHashAPIKey(t *testing.T) {
	hash, err := HashAPIKey("key")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("key")))
}

func TestPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor(time.Hour)
	r := gin.New()
	r.Use(pm.PerformanceMiddleware())
	r.GET("/health", pm.HealthHandler)
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/ok", "/ok", "/fail", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, int64(3), pm.Endpoint("GET /ok").Count)
	assert.Equal(t, int64(1), pm.Endpoint("GET /fail").ErrorCount)
	assert.InDelta(t, 25.0, pm.ErrorRate(), 0.001)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestHealthChecks(t *testing.T) {
	tests := []struct {
		name       string
		check      func() error
		wantCode   int
		wantStatus string
		wantDep    string
	}{
		{"reachable", func() error { return nil }, http.StatusOK, "healthy", `"database":"ok"`},
		{"unreachable", func() error { return errors.New("dial tcp: connection refused") }, http.StatusServiceUnavailable, "unhealthy", `"database":"unreachable: dial tcp: connection refused"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPerformanceMonitor(time.Hour)
			pm.AddCheck("database", tt.check)
			r := gin.New()
			r.GET("/health", pm.HealthHandler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"`+tt.wantStatus+`"`)
			assert.Contains(t, w.Body.String(), tt.wantDep)
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}
