package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-graph-service/pkg/metrics"
)

const maxSQLLength = 1000

var gormLevels = map[string]gormlogger.LogLevel{
	"silent":  gormlogger.Silent,
	"error":   gormlogger.Error,
	"warn":    gormlogger.Warn,
	"warning": gormlogger.Warn,
	"info":    gormlogger.Info,
	"debug":   gormlogger.Info,
}

// GormLogger routes GORM statements to zap and records per-statement metrics.
// Unique-key conflicts are expected outcomes in the store (duplicate signups,
// racing follows) and are logged at debug instead of error.
type GormLogger struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// NewGormLoggerWithConfig creates a GORM logger. Unknown levels fall back to warn.
func NewGormLoggerWithConfig(zapLogger *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	level, ok := gormLevels[strings.ToLower(logLevel)]
	if !ok {
		level = gormlogger.Warn
	}

	return &GormLogger{
		ZapLogger:     zapLogger.With(zap.String("component", "gorm")),
		SlowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		LogLevel:      level,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Info {
		WithContext(ctx, l.ZapLogger).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Warn {
		WithContext(ctx, l.ZapLogger).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Error {
		WithContext(ctx, l.ZapLogger).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. Metrics are recorded even when the
// logger is silent.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	verb := statementVerb(sql)

	result := "ok"
	switch {
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
	case isConflict(err):
		result = "conflict"
	default:
		result = "error"
	}
	metrics.RecordDBQuery(verb, result, elapsed)

	if l.LogLevel <= gormlogger.Silent {
		return
	}

	fields := []zap.Field{
		zap.String("verb", verb),
		zap.String("sql", truncateSQL(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	log := WithContext(ctx, l.ZapLogger)

	switch {
	case result == "error":
		log.Error("gorm query error", append(fields, zap.Error(err))...)
	case result == "conflict":
		log.Debug("gorm unique conflict", append(fields, zap.Error(err))...)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		log.Warn("gorm slow query", append(fields, zap.Duration("threshold", l.SlowThreshold))...)
	case l.LogLevel >= gormlogger.Info:
		log.Info("gorm query", fields...)
	}
}

// statementVerb returns the upper-cased first keyword of sql, or "OTHER".
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP", "PRAGMA", "SAVEPOINT", "RELEASE", "ROLLBACK":
		return verb
	default:
		return "OTHER"
	}
}

func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	return sql[:maxSQLLength] + "..."
}

// isConflict reports a unique-key violation, translated or raw from the driver.
func isConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
