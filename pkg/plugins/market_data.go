package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

const fetchAttempts = 3

// sentimentSource reads an external market mood index
type sentimentSource interface {
	Index(ctx context.Context) (int, string, error)
}

// MarketData fills the batch with the candle window and the market
// sentiment reading.
type MarketData struct {
	plugin.Base
	log logger.Logger

	conn      *Connection
	sentiment sentimentSource
}

// MarketDataDescriptor registers the market data component
func MarketDataDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameMarketData, Category: plugin.CategoryPlugin, Tags: []string{TagCollect}},
		DependsOn: func() []string { return []string{NameConnection} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			conn, ok := deps.Get(NameConnection).(*Connection)
			if !ok {
				return nil, fmt.Errorf("market_data needs the connection component")
			}
			return &MarketData{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameMarketData, Category: plugin.CategoryPlugin, Tags: []string{TagCollect},
				}},
				log:  log,
				conn: conn,
			}, nil
		},
	}
}

// Initialize wires the sentiment reader when the enrichment is enabled
func (m *MarketData) Initialize(settings *core.Settings) error {
	if m.Initialized() {
		return nil
	}

	if settings != nil && settings.Sentiment.Enabled && m.sentiment == nil {
		ttl, err := time.ParseDuration(settings.Sentiment.TTL)
		if err != nil || ttl <= 0 {
			ttl = time.Hour
		}
		m.sentiment = exchange.NewFearGreed(ttl)
	}

	m.Ready(settings)
	return nil
}

// Execute fetches the candle window, retrying transient exchange errors
// with a fixed delay between attempts. The sentiment read is best effort.
func (m *MarketData) Execute(ctx context.Context, batch *core.Batch) error {
	retry := &backoff.Backoff{
		Factor: 1,
		Min:    200 * time.Millisecond,
		Max:    2 * time.Second,
	}

	var candles []core.Candle
	var err error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		candles, err = m.conn.Feeder().CandlesByLimit(ctx, batch.Pair, batch.Timeframe, m.Settings.CandleLimit)
		if err == nil {
			break
		}
		if attempt < fetchAttempts-1 {
			m.log.WithError(err).Warnf("candle fetch failed for %s %s, retrying", batch.Pair, batch.Timeframe)
			time.Sleep(retry.Duration())
		}
	}
	if err != nil {
		return fmt.Errorf("candle fetch for %s %s: %w", batch.Pair, batch.Timeframe, err)
	}

	batch.Candles = candles

	if m.sentiment != nil {
		value, label, err := m.sentiment.Index(ctx)
		if err != nil {
			m.log.WithError(err).Debug("market sentiment unavailable")
		} else {
			batch.Sentiment = &core.MarketSentiment{FearGreedValue: value, FearGreedLabel: label}
		}
	}

	return nil
}
