package telemetry_test

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, config.TelemetryConfig{Enabled: false}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_EnableSpanProfilesWhenDisabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), config.TelemetryConfig{}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)

	tp.EnableSpanProfiles()
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	// metrics need both switches on
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{Enabled: true, MetricsEnabled: false}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}
