package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestCounterAndHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	meter := mp.Meter("test")
	ctx := context.Background()

	counter, err := telemetry.NewCounter(meter, "test_total", "test counter", "1")
	require.NoError(t, err)
	counter.Inc(ctx)
	counter.Add(ctx, 4)

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "test_duration",
		Unit:       "s",
		Boundaries: telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)
	hist.Record(ctx, 0.2)

	rm := collect(t, reader)

	m, ok := findMetric(rm, "test_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)

	m, ok = findMetric(rm, "test_duration")
	require.True(t, ok)
	h := m.Data.(metricdata.Histogram[float64])
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
}

func TestStorefrontMetrics_RecordCheckout(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	metrics, err := telemetry.NewStorefrontMetrics(mp)
	require.NoError(t, err)

	storeID := uuid.New()
	ctx := context.Background()
	metrics.RecordCheckout(ctx, storeID, 3, decimal.RequireFromString("1500.50"))
	metrics.RecordCheckout(ctx, storeID, 1, decimal.NewFromInt(200))

	rm := collect(t, reader)

	m, ok := findMetric(rm, "storefront_checkouts_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	v, found := sum.DataPoints[0].Attributes.Value(telemetry.AttrStoreID)
	require.True(t, found)
	assert.Equal(t, storeID.String(), v.AsString())

	m, ok = findMetric(rm, "storefront_checkout_value")
	require.True(t, ok)
	h := m.Data.(metricdata.Histogram[float64])
	require.Len(t, h.DataPoints, 1)
	assert.InDelta(t, 1700.50, h.DataPoints[0].Sum, 0.001)

	m, ok = findMetric(rm, "storefront_checkout_items")
	require.True(t, ok)
	items := m.Data.(metricdata.Histogram[float64])
	assert.InDelta(t, 4, items.DataPoints[0].Sum, 0.001)
}
