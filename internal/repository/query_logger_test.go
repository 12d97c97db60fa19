package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-barcode-generator/internal/logger"
)

func entries(t *testing.T, buf *bytes.Buffer) []logger.LogEntry {
	t.Helper()
	var out []logger.LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e logger.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}
	return out
}

func TestQueryLoggerTrace(t *testing.T) {
	stmt := func() (string, int64) { return "SELECT * FROM `generation_history` LIMIT 50", 2 }

	tests := []struct {
		name      string
		err       error
		mode      gormlogger.LogLevel
		wantLevel string
	}{
		{"success", nil, gormlogger.Info, "DEBUG"},
		{"record not found", gorm.ErrRecordNotFound, gormlogger.Info, "DEBUG"},
		{"failure", errors.New("connection reset"), gormlogger.Warn, "ERROR"},
		{"silenced", errors.New("connection reset"), gormlogger.Silent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(logger.LoggerConfig{Level: logger.DEBUG}, &buf)
			q := NewQueryLogger(log).LogMode(tt.mode)

			q.Trace(context.Background(), time.Now(), stmt, tt.err)

			got := entries(t, &buf)
			if tt.wantLevel == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantLevel, got[0].Level)
			assert.Equal(t, "SELECT * FROM `generation_history` LIMIT 50", got[0].Fields["sql"])
			assert.Equal(t, float64(2), got[0].Fields["rows"])
		})
	}
}

func TestQueryLoggerMessages(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.LoggerConfig{Level: logger.DEBUG}, &buf)
	q := NewQueryLogger(log).LogMode(gormlogger.Warn)

	q.Info(context.Background(), "migrated %s", "generation_history")
	q.Warn(context.Background(), "pool at %d", 10)
	q.Error(context.Background(), "lost %s", "connection")

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "pool at 10", got[0].Message)
	assert.Equal(t, "ERROR", got[1].Level)
}

func TestQueryLoggerWithoutLogger(t *testing.T) {
	q := NewQueryLogger(nil)
	assert.NotPanics(t, func() {
		q.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, nil)
	})
}
