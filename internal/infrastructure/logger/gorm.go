package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger writes gorm's messages and statements to zap. Statements are
// tagged with the request and store ids carried by the query context.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as
// slow. Zero disables slow query logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// NewGormLogger creates a GormLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode returns a copy logging at level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) enabled(level gormlogger.LogLevel) bool {
	return l.level != gormlogger.Silent && l.level >= level
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Info) {
		l.logger.Info(fmt.Sprintf(msg, data...), contextFields(ctx)...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Warn) {
		l.logger.Warn(fmt.Sprintf(msg, data...), contextFields(ctx)...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Error) {
		l.logger.Error(fmt.Sprintf(msg, data...), contextFields(ctx)...)
	}
}

// Trace logs one executed statement. Failed statements are errors, except
// record-not-found which repositories translate themselves.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	var (
		write func(string, ...zap.Field)
		msg   string
	)
	switch {
	case failed && l.enabled(gormlogger.Error):
		write, msg = l.logger.Error, "SQL Error"
	case slow && l.enabled(gormlogger.Warn):
		write, msg = l.logger.Warn, fmt.Sprintf("SLOW SQL >= %v", l.slowThreshold)
	case !failed && l.enabled(gormlogger.Info):
		write, msg = l.logger.Debug, "SQL Query"
	default:
		return
	}

	sql, rows := fc()
	fields := append(contextFields(ctx),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	)
	if failed {
		fields = append(fields, zap.Error(err))
	}
	write(msg, fields...)
}

// MapGormLogLevel converts the service log level to gorm's. Statements are
// only traced at debug or info.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
