// Package plugins holds the analysis components and their registration.
// Components only talk to each other through declared dependencies and
// the shared batch.
package plugins

import (
	"context"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// Component names
const (
	NameConnection     = "connection"
	NameMarketData     = "market_data"
	NameValidator      = "validator"
	NameStorageManager = "storage_manager"
	NameSignalStore    = "signal_store"
	NamePatterns       = "patterns"
	NameAverages       = "averages"
	NameTrend          = "trend"
	NameOscillators    = "oscillators"
	NameVolatility     = "volatility"
	NameVolume         = "volume"
	NamePriceAction    = "price_action"
	NameAnomaly        = "anomaly_monitor"
	NameRisk           = "risk"
	NameLeverage       = "leverage"
	NameSignals        = "signals"
	NameNotifier       = "notifier"
)

// Execution phases
const (
	TagCollect     = "collect"
	TagAnalysis    = "analysis"
	TagConsolidate = "consolidate"
	TagReport      = "report"
)

// Connection owns the exchange session shared by the data components
type Connection struct {
	plugin.Base
	log logger.Logger

	feeder exchange.Feeder
	dial   func(ctx context.Context, settings *core.Settings) (exchange.Feeder, error)
}

// ConnectionDescriptor registers the exchange connection component
func ConnectionDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: NameConnection, Category: plugin.CategoryPlugin},
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return NewConnection(log), nil
		},
	}
}

// NewConnection creates the connection component with the default
// Binance dialer.
func NewConnection(log logger.Logger) *Connection {
	c := &Connection{
		Base: plugin.Base{Meta: plugin.Metadata{Name: NameConnection, Category: plugin.CategoryPlugin}},
		log:  log,
	}
	c.dial = c.dialBinance
	return c
}

// NewConnectionWithFeeder binds the connection component to an already
// open feeder, useful for replaying canned data.
func NewConnectionWithFeeder(log logger.Logger, feeder exchange.Feeder) *Connection {
	c := NewConnection(log)
	c.dial = func(context.Context, *core.Settings) (exchange.Feeder, error) {
		return feeder, nil
	}
	return c
}

// Initialize opens the exchange session. Idempotent: a live connection
// is reused.
func (c *Connection) Initialize(settings *core.Settings) error {
	if c.Initialized() {
		return nil
	}

	feeder, err := c.dial(context.Background(), settings)
	if err != nil {
		return err
	}

	c.feeder = feeder
	c.Ready(settings)
	return nil
}

// Feeder returns the live market data feeder
func (c *Connection) Feeder() exchange.Feeder { return c.feeder }

// Finalize drops the session
func (c *Connection) Finalize() {
	c.feeder = nil
	c.Reset()
}

func (c *Connection) dialBinance(ctx context.Context, settings *core.Settings) (exchange.Feeder, error) {
	options := []exchange.BinanceOption{}
	if settings.Binance.APIKey != "" {
		options = append(options, exchange.WithCredentials(settings.Binance.APIKey, settings.Binance.APISecret))
	}
	if settings.Binance.UseTestnet {
		options = append(options, exchange.WithTestNet())
	}

	return exchange.NewBinance(ctx, c.log, options...)
}
