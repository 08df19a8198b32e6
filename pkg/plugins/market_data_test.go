package plugins

import (
	"context"
	"testing"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/stretchr/testify/require"
)

// stubSentiment replaces the external index fetch
type stubSentiment struct {
	value int
	label string
	err   error
}

func (s stubSentiment) Index(context.Context) (int, string, error) {
	return s.value, s.label, s.err
}

func newMarketData(t *testing.T, feeder *fakeFeeder) *MarketData {
	t.Helper()

	settings := testSettings()
	conn := stubConnection(feeder)
	require.NoError(t, conn.Initialize(settings))

	inst, err := MarketDataDescriptor(testLog()).New(plugin.Deps{NameConnection: conn})
	require.NoError(t, err)
	require.NoError(t, inst.Initialize(settings))
	return inst.(*MarketData)
}

func TestMarketData_FillsCandleWindow(t *testing.T) {
	md := newMarketData(t, &fakeFeeder{candles: rampCandles("BTCUSDT", 200, 100, 0.5)})

	batch := core.NewBatch("BTCUSDT", "1h")
	require.NoError(t, md.Execute(context.Background(), batch))
	require.Len(t, batch.Candles, 120)

	// sentiment enrichment is opt-in and stays off here
	require.Nil(t, md.sentiment)
	require.Nil(t, batch.Sentiment)
}

func TestMarketData_SentimentEnrichesBatch(t *testing.T) {
	md := newMarketData(t, &fakeFeeder{candles: rampCandles("BTCUSDT", 200, 100, 0.5)})
	md.sentiment = stubSentiment{value: 25, label: "Fear"}

	batch := core.NewBatch("BTCUSDT", "1h")
	require.NoError(t, md.Execute(context.Background(), batch))
	require.NotNil(t, batch.Sentiment)
	require.Equal(t, 25, batch.Sentiment.FearGreedValue)
	require.Equal(t, "Fear", batch.Sentiment.FearGreedLabel)
}

func TestMarketData_SentimentFailureIsBestEffort(t *testing.T) {
	md := newMarketData(t, &fakeFeeder{candles: rampCandles("BTCUSDT", 200, 100, 0.5)})
	md.sentiment = stubSentiment{err: context.DeadlineExceeded}

	batch := core.NewBatch("BTCUSDT", "1h")
	require.NoError(t, md.Execute(context.Background(), batch))
	require.NotEmpty(t, batch.Candles)
	require.Nil(t, batch.Sentiment)
}

func TestMarketData_FetchErrorAfterRetries(t *testing.T) {
	md := newMarketData(t, &fakeFeeder{err: context.DeadlineExceeded})

	batch := core.NewBatch("BTCUSDT", "1h")
	require.Error(t, md.Execute(context.Background(), batch))
	require.Empty(t, batch.Candles)
}
