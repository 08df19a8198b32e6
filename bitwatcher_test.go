package bitwatcher

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	logrusadapter "github.com/raykavin/bitwatcher/pkg/logger/logrus"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/raykavin/bitwatcher/pkg/plugins"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLog() logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrusadapter.NewAdapter(l)
}

func botSettings() *core.Settings {
	return &core.Settings{
		Pairs:       []string{"BTCUSDT"},
		Timeframes:  []string{"1h"},
		CandleLimit: 120,
		Interval:    "1m",
	}
}

// replayFeeder serves a canned candle window
type replayFeeder struct {
	candles []core.Candle
}

func (f *replayFeeder) AssetsInfo(pair string) core.AssetInfo {
	return core.AssetInfo{BaseAsset: "BTC", QuoteAsset: "USDT", QuotePrecision: 2}
}

func (f *replayFeeder) LastQuote(ctx context.Context, pair string) (float64, error) {
	return f.candles[len(f.candles)-1].Close, nil
}

func (f *replayFeeder) CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error) {
	if limit > len(f.candles) {
		limit = len(f.candles)
	}
	return f.candles[len(f.candles)-limit:], nil
}

func (f *replayFeeder) CandlesByPeriod(ctx context.Context, pair, period string, start, end time.Time) ([]core.Candle, error) {
	return f.candles, nil
}

func replayWindow(n int) []core.Candle {
	candles := make([]core.Candle, n)
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		base := 100 + float64(i)*0.5
		wobble := math.Sin(float64(i)/5) * 0.5
		open := base - 0.125 + wobble
		close := base + 0.125 + wobble

		candles[i] = core.Candle{
			Pair:     "BTCUSDT",
			Time:     t.Add(time.Duration(i) * time.Hour),
			Open:     open,
			Close:    close,
			High:     math.Max(open, close) + 0.25,
			Low:      math.Min(open, close) - 0.25,
			Volume:   1000 + float64(i),
			Complete: true,
		}
	}

	return candles
}

func stubConnectionDescriptor(feeder *replayFeeder) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: plugins.NameConnection, Category: plugin.CategoryPlugin},
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return plugins.NewConnectionWithFeeder(quietLog(), feeder), nil
		},
	}
}

func TestNewBot_RejectsInvalidPair(t *testing.T) {
	settings := botSettings()
	settings.Pairs = []string{"???"}

	_, err := NewBot(settings, WithLogger(quietLog()))
	require.Error(t, err)
}

func TestNewBot_RejectsEmptyPairs(t *testing.T) {
	settings := botSettings()
	settings.Pairs = nil

	_, err := NewBot(settings, WithLogger(quietLog()))
	require.Error(t, err)
}

func TestNewBot_RegistersBuiltinComponents(t *testing.T) {
	bot, err := NewBot(botSettings(), WithLogger(quietLog()))
	require.NoError(t, err)

	names := bot.Registry().Names()
	require.Contains(t, names, plugins.NameConnection)
	require.Contains(t, names, plugins.NameSignals)
	require.Contains(t, names, plugins.NameNotifier)
}

func TestBot_RunCycle(t *testing.T) {
	feeder := &replayFeeder{candles: replayWindow(200)}

	bot, err := NewBot(botSettings(),
		WithLogger(quietLog()),
		WithComponent(stubConnectionDescriptor(feeder)),
	)
	require.NoError(t, err)

	require.True(t, bot.Orchestrator().InitializeAll(bot.settings))
	defer bot.Orchestrator().FinalizeAll()

	require.True(t, bot.RunCycle(context.Background()))
}

func TestBot_IntervalParsing(t *testing.T) {
	bot, err := NewBot(botSettings(), WithLogger(quietLog()))
	require.NoError(t, err)

	bot.settings.Interval = "1h30m"
	require.Equal(t, 90*time.Minute, bot.interval())

	bot.settings.Interval = "nonsense"
	require.Equal(t, defaultInterval, bot.interval())

	bot.settings.Interval = ""
	require.Equal(t, defaultInterval, bot.interval())
}
