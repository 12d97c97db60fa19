package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Stats are the counters kept per route.
type Stats struct {
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	AverageTime   time.Duration `json:"average_time"`
	ErrorCount    int64         `json:"error_count"`
	SlowCount     int64         `json:"slow_count"`
}

// EndpointSummary is one row of the slowest-routes report.
type EndpointSummary struct {
	Endpoint    string        `json:"endpoint"`
	AverageTime time.Duration `json:"average_time"`
	Count       int64         `json:"count"`
}

// PerformanceMonitor counts requests per route. Rendering large batches is
// the expensive path, so slow requests are counted separately.
type PerformanceMonitor struct {
	mu            sync.Mutex
	requests      int64
	errors        int64
	endpoints     map[string]Stats
	slowThreshold time.Duration
	startTime     time.Time
	checks        map[string]func() error
}

func NewPerformanceMonitor(slowThreshold time.Duration) *PerformanceMonitor {
	return &PerformanceMonitor{
		endpoints:     make(map[string]Stats),
		slowThreshold: slowThreshold,
		startTime:     time.Now(),
	}
}

// PerformanceMiddleware records the duration and outcome of each request.
func (pm *PerformanceMonitor) PerformanceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "/health" {
			c.Next()
			return
		}

		c.Next()

		duration := time.Since(start)
		if path == "" {
			path = "unmatched"
		}
		pm.record(c.Request.Method+" "+path, duration, c.Writer.Status() >= 500)
	}
}

func (pm *PerformanceMonitor) record(endpoint string, duration time.Duration, isError bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.requests++
	stats := pm.endpoints[endpoint]
	stats.Count++
	stats.TotalDuration += duration
	stats.AverageTime = stats.TotalDuration / time.Duration(stats.Count)
	if isError {
		stats.ErrorCount++
		pm.errors++
	}
	if duration > pm.slowThreshold {
		stats.SlowCount++
	}
	pm.endpoints[endpoint] = stats
}

// ErrorRate is the share of 5xx responses in percent.
func (pm *PerformanceMonitor) ErrorRate() float64 {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.requests == 0 {
		return 0
	}
	return float64(pm.errors) / float64(pm.requests) * 100
}

// Endpoint returns the counters for "METHOD /route".
func (pm *PerformanceMonitor) Endpoint(endpoint string) Stats {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.endpoints[endpoint]
}

func (pm *PerformanceMonitor) GetTopSlowEndpoints(limit int) []EndpointSummary {
	pm.mu.Lock()
	summaries := make([]EndpointSummary, 0, len(pm.endpoints))
	for endpoint, stats := range pm.endpoints {
		summaries = append(summaries, EndpointSummary{
			Endpoint:    endpoint,
			AverageTime: stats.AverageTime,
			Count:       stats.Count,
		})
	}
	pm.mu.Unlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AverageTime > summaries[j].AverageTime
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// AddCheck registers a dependency probe reported by HealthHandler under
// name. A failing check marks the service unhealthy.
func (pm *PerformanceMonitor) AddCheck(name string, check func() error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.checks == nil {
		pm.checks = make(map[string]func() error)
	}
	pm.checks[name] = check
}

// HealthHandler serves /health. It answers 503 when a registered check fails.
func (pm *PerformanceMonitor) HealthHandler(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	pm.mu.Lock()
	requests := pm.requests
	checks := make(map[string]func() error, len(pm.checks))
	for name, check := range pm.checks {
		checks[name] = check
	}
	pm.mu.Unlock()
	errorRate := pm.ErrorRate()

	status := "healthy"
	if errorRate > 10 {
		status = "degraded"
	}
	if errorRate > 25 {
		status = "unhealthy"
	}

	code := http.StatusOK
	dependencies := make(gin.H, len(checks))
	for name, check := range checks {
		if err := check(); err != nil {
			dependencies[name] = "unreachable: " + err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		dependencies[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"timestamp":  time.Now(),
		"uptime":     time.Since(pm.startTime).String(),
		"requests":   requests,
		"error_rate": fmt.Sprintf("%.2f%%", errorRate),
		"memory": gin.H{
			"allocated": formatBytes(mem.Alloc),
			"sys":       formatBytes(mem.Sys),
			"gc_runs":   mem.NumGC,
		},
		"slowest":      pm.GetTopSlowEndpoints(3),
		"dependencies": dependencies,
	})
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RequestSizeLimitMiddleware rejects bodies larger than maxSize bytes.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "REQUEST_TOO_LARGE",
				"message": fmt.Sprintf("Request body exceeds %s", formatBytes(uint64(maxSize))),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
