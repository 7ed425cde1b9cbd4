package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newQueryTracer routes pgx query logs into zap. Unknown levels fall back to
// warn so failed queries are always visible.
func newQueryTracer(level string, logger *zap.Logger) *tracelog.TraceLog {
	pgLevel, err := tracelog.LogLevelFromString(level)
	if err != nil {
		pgLevel = tracelog.LogLevelWarn
	}
	return &tracelog.TraceLog{
		Logger:   zapTraceLogger{logger: logger.Named("pgx")},
		LogLevel: pgLevel,
	}
}

type zapTraceLogger struct {
	logger *zap.Logger
}

func (l zapTraceLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		// bound query arguments may carry password hashes
		if k == "args" {
			continue
		}
		fields = append(fields, zap.Any(k, v))
	}
	l.logger.Log(zapLevel(level), msg, fields...)
}

func zapLevel(level tracelog.LogLevel) zapcore.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return zapcore.DebugLevel
	case tracelog.LogLevelInfo:
		return zapcore.InfoLevel
	case tracelog.LogLevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
