package plugins

import (
	"context"
	"testing"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/stretchr/testify/require"
)

func newAnomaly(t *testing.T) *Anomaly {
	t.Helper()
	inst, err := AnomalyDescriptor(testLog()).New(nil)
	require.NoError(t, err)
	require.NoError(t, inst.Initialize(testSettings()))
	return inst.(*Anomaly)
}

func TestAnomaly_CalmWindowRaisesNoFlags(t *testing.T) {
	a := newAnomaly(t)

	batch := validatedBatch(120)
	require.NoError(t, a.Execute(context.Background(), batch))

	require.NotNil(t, batch.Anomaly)
	require.False(t, batch.Anomaly.Anomalous())
}

func TestAnomaly_FlagsVolumeSpike(t *testing.T) {
	a := newAnomaly(t)

	batch := validatedBatch(120)
	batch.Candles[len(batch.Candles)-1].Volume *= 100

	require.NoError(t, a.Execute(context.Background(), batch))

	require.NotNil(t, batch.Anomaly)
	require.Contains(t, batch.Anomaly.Flags, "volume_spike")
	require.GreaterOrEqual(t, batch.Anomaly.VolumeZScore, anomalyBar)
}

func TestAnomaly_FlagsPriceShock(t *testing.T) {
	a := newAnomaly(t)

	batch := validatedBatch(120)
	last := &batch.Candles[len(batch.Candles)-1]
	last.Close *= 1.5
	last.High = last.Close + 1

	require.NoError(t, a.Execute(context.Background(), batch))

	require.NotNil(t, batch.Anomaly)
	require.Contains(t, batch.Anomaly.Flags, "price_shock")
}

func TestAnomaly_ShortWindowSkips(t *testing.T) {
	a := newAnomaly(t)

	batch := core.NewBatch("BTCUSDT", "1h")
	batch.Candles = rampCandles("BTCUSDT", 30, 100, 0.5)
	batch.Validated = true

	require.NoError(t, a.Execute(context.Background(), batch))
	require.Nil(t, batch.Anomaly)
}
