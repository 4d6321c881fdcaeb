package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), config.TelemetryConfig{Enabled: true}, "test", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.Core("storefront", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_CoreForwardsAboveLevel(t *testing.T) {
	exporter := &recordingExporter{}
	lp := telemetry.NewLoggerProviderWithProcessor(sdklog.NewSimpleProcessor(exporter), zap.NewNop())
	require.True(t, lp.IsEnabled())

	core := lp.Core("storefront", zapcore.WarnLevel)
	require.NotNil(t, core)
	logger := zap.New(core).With(zap.String("store_id", "s1"))

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("also kept")

	assert.Equal(t, []string{"kept", "also kept"}, exporter.messages())
	assert.NoError(t, lp.Shutdown(context.Background()))
}
