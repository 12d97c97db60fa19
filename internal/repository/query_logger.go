package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-barcode-generator/internal/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLogger sends gorm's statement trace to the structured logger, which
// applies its own level filter.
type queryLogger struct {
	log   *logger.StructuredLogger
	level gormlogger.LogLevel
}

// NewQueryLogger adapts log to gorm. A nil log silences gorm.
func NewQueryLogger(log *logger.StructuredLogger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return &queryLogger{log: log, level: gormlogger.Info}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Info {
		q.log.Info(fmt.Sprintf(msg, args...), map[string]interface{}{"component": "history_db"})
	}
}

func (q *queryLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Warn {
		q.log.Warn(fmt.Sprintf(msg, args...), map[string]interface{}{"component": "history_db"})
	}
}

func (q *queryLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Error {
		q.log.Error(fmt.Sprintf(msg, args...), nil, map[string]interface{}{"component": "history_db"})
	}
}

// Trace logs one statement. A missing row is not a failure.
func (q *queryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	sql, rows := fc()
	q.log.LogQuery(sql, time.Since(begin), err, map[string]interface{}{"rows": rows})
}
