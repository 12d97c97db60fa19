package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LogLevel represents logging severity levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configured level name to a LogLevel. Unknown names
// fall back to INFO.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// LogEntry is one JSON line.
type LogEntry struct {
	Timestamp   time.Time              `json:"timestamp"`
	Level       string                 `json:"level"`
	Message     string                 `json:"message"`
	Service     string                 `json:"service"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	RequestID   string                 `json:"request_id,omitempty"`
	Method      string                 `json:"method,omitempty"`
	Path        string                 `json:"path,omitempty"`
	StatusCode  int                    `json:"status_code,omitempty"`
	Duration    string                 `json:"duration,omitempty"`
	IP          string                 `json:"ip,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
	File        string                 `json:"file,omitempty"`
	Line        int                    `json:"line,omitempty"`
	Function    string                 `json:"function,omitempty"`
}

// StructuredLogger writes JSON log lines.
type StructuredLogger struct {
	mu           sync.Mutex
	level        LogLevel
	service      string
	version      string
	environment  string
	output       io.Writer
	closer       io.Closer
	enableCaller bool
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level        LogLevel
	Service      string
	Version      string
	Environment  string
	OutputPath   string
	EnableCaller bool
}

// NewStructuredLogger opens OutputPath (stdout when empty) and returns a
// logger writing to it.
func NewStructuredLogger(config LoggerConfig) (*StructuredLogger, error) {
	if config.OutputPath == "" || config.OutputPath == "stdout" {
		return NewWithWriter(config, os.Stdout), nil
	}
	if config.OutputPath == "stderr" {
		return NewWithWriter(config, os.Stderr), nil
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	sl := NewWithWriter(config, file)
	sl.closer = file
	return sl, nil
}

// NewWithWriter returns a logger writing to w. OutputPath is ignored.
func NewWithWriter(config LoggerConfig, w io.Writer) *StructuredLogger {
	return &StructuredLogger{
		level:        config.Level,
		service:      config.Service,
		version:      config.Version,
		environment:  config.Environment,
		output:       w,
		enableCaller: config.EnableCaller,
	}
}

func (sl *StructuredLogger) log(level LogLevel, message string, fields map[string]interface{}) {
	if level < sl.level {
		return
	}

	entry := &LogEntry{
		Timestamp:   time.Now().UTC(),
		Level:       level.String(),
		Message:     message,
		Service:     sl.service,
		Version:     sl.version,
		Environment: sl.environment,
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}

	if sl.enableCaller {
		if file, line, fn := getCaller(3); file != "" {
			entry.File = file
			entry.Line = line
			entry.Function = fn
		}
	}

	sl.write(entry)
}

func (sl *StructuredLogger) write(entry *LogEntry) {
	jsonData, _ := json.Marshal(entry)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	fmt.Fprintf(sl.output, "%s\n", jsonData)
}

func (sl *StructuredLogger) Debug(message string, fields ...map[string]interface{}) {
	sl.log(DEBUG, message, mergeFields(fields...))
}

func (sl *StructuredLogger) Info(message string, fields ...map[string]interface{}) {
	sl.log(INFO, message, mergeFields(fields...))
}

func (sl *StructuredLogger) Warn(message string, fields ...map[string]interface{}) {
	sl.log(WARN, message, mergeFields(fields...))
}

// Error logs err with a stack trace.
func (sl *StructuredLogger) Error(message string, err error, fields ...map[string]interface{}) {
	logFields := mergeFields(fields...)
	if err != nil {
		logFields["error"] = err.Error()
		logFields["stack"] = getStackTrace()
	}
	sl.log(ERROR, message, logFields)
}

// LogRequest logs HTTP request details
func (sl *StructuredLogger) LogRequest(c *gin.Context, duration time.Duration, fields ...map[string]interface{}) {
	if INFO < sl.level {
		return
	}
	entry := &LogEntry{
		Timestamp:   time.Now().UTC(),
		Level:       INFO.String(),
		Message:     "HTTP Request",
		Service:     sl.service,
		Version:     sl.version,
		Environment: sl.environment,
		RequestID:   getRequestID(c),
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		StatusCode:  c.Writer.Status(),
		Duration:    duration.String(),
		IP:          c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		Fields:      mergeFields(fields...),
	}
	sl.write(entry)
}

// SlowQueryThreshold is the statement time above which LogQuery warns.
const SlowQueryThreshold = 200 * time.Millisecond

// LogQuery logs one history database statement. Failures are logged at ERROR
// and statements slower than SlowQueryThreshold at WARN.
func (sl *StructuredLogger) LogQuery(statement string, elapsed time.Duration, err error, fields ...map[string]interface{}) {
	logFields := mergeFields(fields...)
	logFields["component"] = "history_db"
	logFields["sql"] = statement
	logFields["elapsed_ms"] = elapsed.Milliseconds()

	switch {
	case err != nil:
		logFields["error"] = err.Error()
		sl.log(ERROR, "History query failed", logFields)
	case elapsed > SlowQueryThreshold:
		sl.log(WARN, "Slow history query", logFields)
	default:
		sl.log(DEBUG, "History query", logFields)
	}
}

// LogBusinessEvent logs a generation event such as a rendered symbol or an
// exported batch.
func (sl *StructuredLogger) LogBusinessEvent(event string, resource string, operation string, fields ...map[string]interface{}) {
	logFields := mergeFields(fields...)
	logFields["component"] = "business"
	logFields["operation"] = operation
	logFields["resource"] = resource

	sl.log(INFO, event, logFields)
}

// LogSecurityEvent logs security-related events
func (sl *StructuredLogger) LogSecurityEvent(event string, severity string, fields ...map[string]interface{}) {
	level := INFO
	switch severity {
	case "high":
		level = ERROR
	case "medium":
		level = WARN
	}

	logFields := mergeFields(fields...)
	logFields["component"] = "security"
	logFields["severity"] = severity

	sl.log(level, event, logFields)
}

// LogSystemEvent logs system-level events
func (sl *StructuredLogger) LogSystemEvent(event string, fields ...map[string]interface{}) {
	logFields := mergeFields(fields...)
	logFields["component"] = "system"

	sl.log(INFO, event, logFields)
}

// WithRequestContext returns a request-aware logger
func (sl *StructuredLogger) WithRequestContext(c *gin.Context) *RequestLogger {
	return &RequestLogger{
		logger: sl,
		ctx:    c,
	}
}

func getCaller(skip int) (string, int, string) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "", 0, ""
	}

	var fnName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		fnName = fn.Name()
		if i := strings.LastIndex(fnName, "."); i >= 0 {
			fnName = fnName[i+1:]
		}
	}

	return filepath.Base(file), line, fnName
}

func getStackTrace() string {
	stack := make([]byte, 4096)
	length := runtime.Stack(stack, false)
	return string(stack[:length])
}

func mergeFields(fields ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range fields {
		for k, v := range field {
			result[k] = v
		}
	}
	return result
}

func getRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// RequestLogger adds request fields to every entry.
type RequestLogger struct {
	logger *StructuredLogger
	ctx    *gin.Context
}

func (rl *RequestLogger) Info(message string, fields ...map[string]interface{}) {
	rl.logger.Info(message, rl.enrich(fields...))
}

func (rl *RequestLogger) Warn(message string, fields ...map[string]interface{}) {
	rl.logger.Warn(message, rl.enrich(fields...))
}

func (rl *RequestLogger) Error(message string, err error, fields ...map[string]interface{}) {
	rl.logger.Error(message, err, rl.enrich(fields...))
}

func (rl *RequestLogger) enrich(fields ...map[string]interface{}) map[string]interface{} {
	enriched := mergeFields(fields...)
	enriched["request_id"] = getRequestID(rl.ctx)
	enriched["method"] = rl.ctx.Request.Method
	enriched["path"] = rl.ctx.Request.URL.Path
	enriched["ip"] = rl.ctx.ClientIP()
	return enriched
}

// LoggingMiddleware provides request logging middleware
func (sl *StructuredLogger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("%d", start.UnixNano())
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := map[string]interface{}{
			"bytes_in":  c.Request.ContentLength,
			"bytes_out": c.Writer.Size(),
		}
		if raw := c.Request.URL.RawQuery; raw != "" {
			fields["query"] = raw
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		sl.LogRequest(c, time.Since(start), fields)
	}
}

// Close closes the log file, if any.
func (sl *StructuredLogger) Close() error {
	if sl.closer != nil {
		return sl.closer.Close()
	}
	return nil
}
