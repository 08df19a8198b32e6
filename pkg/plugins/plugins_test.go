package plugins

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/logger"
	logrusadapter "github.com/raykavin/bitwatcher/pkg/logger/logrus"
	"github.com/sirupsen/logrus"
)

func testLog() logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrusadapter.NewAdapter(l)
}

func testSettings() *core.Settings {
	return &core.Settings{
		Pairs:       []string{"BTCUSDT"},
		Timeframes:  []string{"1h"},
		CandleLimit: 120,
		SignalWeights: map[string]float64{
			NameTrend:    1.5,
			NameAverages: 1.2,
		},
	}
}

// rampCandles builds a clean rising window with mild oscillation, enough
// history for every indicator period in use.
func rampCandles(pair string, n int, start, step float64) []core.Candle {
	candles := make([]core.Candle, n)
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		base := start + float64(i)*step
		wobble := math.Sin(float64(i)/5) * step
		open := base - step/4 + wobble
		close := base + step/4 + wobble

		candles[i] = core.Candle{
			Pair:      pair,
			Time:      t.Add(time.Duration(i) * time.Hour),
			UpdatedAt: t.Add(time.Duration(i) * time.Hour),
			Open:      open,
			Close:     close,
			High:      math.Max(open, close) + step/2,
			Low:       math.Min(open, close) - step/2,
			Volume:    1000 + float64(i),
			Complete:  true,
		}
	}

	return candles
}

func validatedBatch(n int) *core.Batch {
	batch := core.NewBatch("BTCUSDT", "1h")
	batch.Candles = rampCandles("BTCUSDT", n, 100, 0.5)
	batch.Validated = true
	return batch
}

// fakeFeeder serves canned candles without touching the network
type fakeFeeder struct {
	candles []core.Candle
	err     error
}

func (f *fakeFeeder) AssetsInfo(pair string) core.AssetInfo {
	return core.AssetInfo{BaseAsset: "BTC", QuoteAsset: "USDT", QuotePrecision: 2}
}

func (f *fakeFeeder) LastQuote(ctx context.Context, pair string) (float64, error) {
	if len(f.candles) == 0 {
		return 0, f.err
	}
	return f.candles[len(f.candles)-1].Close, f.err
}

func (f *fakeFeeder) CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.candles) {
		limit = len(f.candles)
	}
	return f.candles[len(f.candles)-limit:], nil
}

func (f *fakeFeeder) CandlesByPeriod(ctx context.Context, pair, period string, start, end time.Time) ([]core.Candle, error) {
	return f.candles, f.err
}

// stubConnection builds a connection component wired to the fake feeder
func stubConnection(feeder exchange.Feeder) *Connection {
	return NewConnectionWithFeeder(testLog(), feeder)
}
