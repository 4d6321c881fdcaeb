package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold applies when none is configured
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracer adds otelgorm spans and flags slow statements
type DBTracer struct {
	threshold time.Duration
	logger    *zap.Logger
}

// RegisterDBTracing installs otelgorm on db plus the slow query callbacks.
// It is a no-op unless telemetry and DB tracing are both enabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("storefront")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	tracer := &DBTracer{threshold: threshold, logger: logger}
	if err := tracer.Register(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

// NewDBTracer creates the slow query callbacks without otelgorm
func NewDBTracer(threshold time.Duration, logger *zap.Logger) *DBTracer {
	return &DBTracer{threshold: threshold, logger: logger}
}

// Register hooks the before and after callbacks into every GORM processor
func (t *DBTracer) Register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("storefront:before_create", t.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("storefront:after_create", t.after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("storefront:before_query", t.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("storefront:after_query", t.after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("storefront:before_update", t.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("storefront:after_update", t.after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("storefront:before_delete", t.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("storefront:after_delete", t.after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("storefront:before_row", t.before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("storefront:after_row", t.after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("storefront:before_raw", t.before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("storefront:after_raw", t.after)
}

func (t *DBTracer) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (t *DBTracer) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			RecordError(span, db.Error)
		}
	}

	if elapsed <= t.threshold {
		return
	}
	if span.IsRecording() {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", t.threshold.Milliseconds()),
		))
	}
	t.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", t.threshold),
	)
}
