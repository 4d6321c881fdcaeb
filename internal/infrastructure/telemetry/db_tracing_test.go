package telemetry_test

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, telemetry.RegisterDBTracing(db, config.TelemetryConfig{Enabled: true, DBTraceEnabled: false}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("storefront:after_query"))
}

func TestDBTracer_FlagsSlowQueries(t *testing.T) {
	db := openSQLite(t)
	core, logs := observer.New(zapcore.WarnLevel)

	// a zero threshold makes every statement slow
	require.NoError(t, telemetry.NewDBTracer(0, zap.New(core)).Register(db))

	tp, recorder := newRecordingTracer(t)
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Exec("CREATE TABLE things (id INTEGER PRIMARY KEY)").Error)
	span.End()

	assert.Equal(t, 1, logs.FilterMessage("Slow query").Len())

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	var slow bool
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == "db.slow_query" {
			slow = kv.Value.AsBool()
		}
	}
	assert.True(t, slow)
}

func TestDBTracer_RecordsErrorsButNotMissingRows(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, telemetry.NewDBTracer(telemetry.DefaultSlowQueryThreshold, zap.NewNop()).Register(db))
	require.NoError(t, db.Exec("CREATE TABLE things (id INTEGER PRIMARY KEY)").Error)

	tp, recorder := newRecordingTracer(t)
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	var row struct{ ID int }
	err := db.WithContext(ctx).Table("things").Where("id = ?", 1).First(&row).Error
	span.End()

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Len(t, recorder.Ended(), 1)
	assert.Empty(t, recorder.Ended()[0].Events())
}
