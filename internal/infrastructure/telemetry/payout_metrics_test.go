package telemetry_test

import (
	"context"
	"testing"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestPayoutMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewPayoutMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPayout(ctx, "t1", "CASH", decimal.RequireFromString("70.50"), 2)
	m.RecordPayout(ctx, "t1", "CASH", decimal.RequireFromString("29.50"), 1)
	m.RecordPayoutFailure(ctx, "t1", "NO_PENDING_PAYOUTS")
	m.RecordSaleRecorded(ctx, "t1", consignment.PayoutMethodPercentageSplit)

	data := collect(t, reader)

	processed := data["payout_processed_total"].(metricdata.Sum[int64])
	require.Len(t, processed.DataPoints, 1)
	assert.Equal(t, int64(2), processed.DataPoints[0].Value)

	amount := data["payout_amount_total"].(metricdata.Sum[float64])
	assert.InDelta(t, 100.0, amount.DataPoints[0].Value, 0.0001)

	paid := data["payout_sales_paid_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(3), paid.DataPoints[0].Value)

	failures := data["payout_failures_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)

	recorded := data["consignment_sales_recorded_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(1), recorded.DataPoints[0].Value)
}

func TestNewPayoutMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewPayoutMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestDisabledProvidersAreNoOps(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{}, logger)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{}, logger)
	require.NoError(t, err)
	assert.Same(t, logger, lp.Bridge(logger))

	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, logger)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}
