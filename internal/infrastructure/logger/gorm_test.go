package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"error", gormlogger.Warn, time.Now(), errors.New("deadlock"), "SQL error", zapcore.ErrorLevel},
		{"slow", gormlogger.Warn, time.Now().Add(-time.Second), nil, "Slow SQL", zapcore.WarnLevel},
		{"normal at info", gormlogger.Info, time.Now(), nil, "SQL", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level)
			ctx := WithRequestID(context.Background(), "req-7")

			gl.Trace(ctx, tt.begin, sqlFn("SELECT 1", 1), tt.err)

			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.wantMsg, entries[0].Message)
				assert.Equal(t, tt.wantLevel, entries[0].Level)
				assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
				assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLogger_TraceSuppressed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), nil)
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), errors.New("x"))

	assert.Zero(t, logs.Len())
}

func TestGormLogger_Options(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn,
		WithSlowThreshold(0),
		WithIgnoreRecordNotFoundError(false),
	)

	gl.Trace(context.Background(), time.Now().Add(-time.Hour), sqlFn("SELECT 1", 1), nil)
	assert.Zero(t, logs.Len())

	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	assert.Equal(t, 1, logs.FilterMessage("SQL error").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}

var _ gormlogger.Interface = (*GormLogger)(nil)
