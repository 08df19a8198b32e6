package plugins

import (
	"context"
	"testing"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/stretchr/testify/require"
)

func newSignals(t *testing.T) *Signals {
	t.Helper()
	inst, err := SignalsDescriptor(testLog()).New(nil)
	require.NoError(t, err)
	require.NoError(t, inst.Initialize(testSettings()))
	return inst.(*Signals)
}

func TestSignals_WeightedConsolidation(t *testing.T) {
	s := newSignals(t)

	batch := validatedBatch(120)
	batch.Averages = &core.MovingAverages{Direction: core.Long}
	batch.Trend = &core.TrendReport{Direction: core.Long, Strength: 0.8}
	batch.Oscillators = &core.OscillatorReport{Direction: core.Short, Strength: 0.25}
	batch.Volume = &core.VolumeReport{Direction: core.Long, Strength: 0.5}
	batch.PriceAction = &core.PriceActionReport{Direction: core.Neutral}
	batch.Risk = &core.RiskReport{StopLoss: 95, TakeProfit: 110, Leverage: 3}

	require.NoError(t, s.Execute(context.Background(), batch))
	require.NotNil(t, batch.Signal)

	signal := batch.Signal
	require.Equal(t, core.Long, signal.Direction)
	// long: 1*1.2 + 0.8*1.5 + 0.5*1 = 2.9 of 5.7 total weight
	require.InDelta(t, 2.9/5.7, signal.Score, 1e-9)
	require.InDelta(t, 0.75, signal.Agreement, 1e-9)
	require.Equal(t, 5, signal.Contributions)
	require.Equal(t, 95.0, signal.StopLoss)
	require.Equal(t, 110.0, signal.TakeProfit)
	require.Equal(t, 3, signal.Leverage)
}

func TestSignals_TieStaysNeutral(t *testing.T) {
	s := newSignals(t)

	batch := validatedBatch(120)
	batch.Oscillators = &core.OscillatorReport{Direction: core.Long, Strength: 0.5}
	batch.Volume = &core.VolumeReport{Direction: core.Short, Strength: 0.5}

	require.NoError(t, s.Execute(context.Background(), batch))
	require.NotNil(t, batch.Signal)
	require.Equal(t, core.Neutral, batch.Signal.Direction)
	require.Zero(t, batch.Signal.Score)
}

func TestSignals_LowAgreementStaysNeutral(t *testing.T) {
	s := newSignals(t)

	// one strong long vote against two weak shorts: the long side wins
	// on weight but holds only a third of the decided votes
	batch := validatedBatch(120)
	batch.Trend = &core.TrendReport{Direction: core.Long, Strength: 1}
	batch.Oscillators = &core.OscillatorReport{Direction: core.Short, Strength: 0.2}
	batch.Volume = &core.VolumeReport{Direction: core.Short, Strength: 0.2}

	require.NoError(t, s.Execute(context.Background(), batch))
	require.Equal(t, core.Neutral, batch.Signal.Direction)
}

func TestSignals_SentimentExtremesVote(t *testing.T) {
	s := newSignals(t)

	batch := validatedBatch(120)
	batch.Sentiment = &core.MarketSentiment{FearGreedValue: 10, FearGreedLabel: "Extreme Fear"}
	batch.Volume = &core.VolumeReport{Direction: core.Long, Strength: 0.5}

	require.NoError(t, s.Execute(context.Background(), batch))
	require.Equal(t, core.Long, batch.Signal.Direction)
	require.Equal(t, 2, batch.Signal.Contributions)
}

func TestSignals_SkipsUnvalidatedBatch(t *testing.T) {
	s := newSignals(t)

	batch := core.NewBatch("BTCUSDT", "1h")
	require.NoError(t, s.Execute(context.Background(), batch))
	require.Nil(t, batch.Signal)
}

func TestRiskAndLeverage(t *testing.T) {
	riskInst, err := RiskDescriptor(testLog()).New(nil)
	require.NoError(t, err)
	require.NoError(t, riskInst.Initialize(testSettings()))

	levInst, err := LeverageDescriptor(testLog()).New(nil)
	require.NoError(t, err)
	require.NoError(t, levInst.Initialize(testSettings()))

	batch := validatedBatch(120)
	batch.Volatility = &core.VolatilityReport{ATR: 2, BandWidth: 0.02, RelativeStdDev: 0.01}

	require.NoError(t, riskInst.Execute(context.Background(), batch))
	require.NotNil(t, batch.Risk)

	lastClose := core.Last(core.NewSeries(batch.Candles).Close, 0)
	require.InDelta(t, lastClose-4, batch.Risk.StopLoss, 1e-9)
	require.InDelta(t, lastClose+6, batch.Risk.TakeProfit, 1e-9)
	require.Equal(t, 0.1, batch.Risk.MaxExposure)

	require.NoError(t, levInst.Execute(context.Background(), batch))
	require.GreaterOrEqual(t, batch.Risk.Leverage, 1)
	require.LessOrEqual(t, batch.Risk.Leverage, maxLeverage)
}

func TestRisk_HighVolatilityHalvesExposure(t *testing.T) {
	riskInst, err := RiskDescriptor(testLog()).New(nil)
	require.NoError(t, err)
	require.NoError(t, riskInst.Initialize(testSettings()))

	batch := validatedBatch(120)
	batch.Volatility = &core.VolatilityReport{ATR: 8, BandWidth: 0.2, RelativeStdDev: 0.1}

	require.NoError(t, riskInst.Execute(context.Background(), batch))
	require.Equal(t, 0.05, batch.Risk.MaxExposure)
}
