package bitwatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/raykavin/bitwatcher/pkg/plugins"
	"github.com/xhit/go-str2duration/v2"
)

// DefaultLog is the default logger instance
var DefaultLog logger.Logger

const defaultInterval = time.Minute

// Bot wires the component registry, orchestrator and dispatcher into an
// analysis loop over the configured pairs and timeframes
type Bot struct {
	settings *core.Settings
	log      logger.Logger

	registry     *plugin.Registry
	orchestrator *plugin.Orchestrator
	dispatcher   *plugin.Dispatcher

	extras []*plugin.Descriptor
}

// NewBot creates a new Bot instance with the provided settings
func NewBot(settings *core.Settings, options ...Option) (*Bot, error) {
	bot := &Bot{
		settings: settings,
		log:      DefaultLog,
	}

	if err := validatePairs(settings.Pairs); err != nil {
		return nil, err
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	if bot.registry == nil {
		bot.registry = plugin.NewRegistry(bot.log)
	}

	// extras go first so they can take a built-in component's slot
	for _, desc := range bot.extras {
		bot.registry.Register(desc)
	}
	plugins.RegisterAll(bot.registry, bot.log)

	bot.orchestrator = plugin.NewOrchestrator(bot.registry, bot.log)
	bot.dispatcher = plugin.NewDispatcher(bot.orchestrator, bot.log)

	return bot, nil
}

// validatePairs ensures all trading pairs have valid asset and quote components
func validatePairs(pairs []string) error {
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs configured")
	}

	for _, pair := range pairs {
		asset, quote := exchange.SplitAssetQuote(pair)
		if asset == "" || quote == "" {
			return fmt.Errorf("invalid pair: %s", pair)
		}
	}
	return nil
}

// Orchestrator exposes the component orchestrator, mainly for inspection
func (b *Bot) Orchestrator() *plugin.Orchestrator {
	return b.orchestrator
}

// Registry exposes the component registry
func (b *Bot) Registry() *plugin.Registry {
	return b.registry
}

// Run starts all components and repeats the analysis cycle until the
// context is canceled
func (b *Bot) Run(ctx context.Context) error {
	if !b.orchestrator.InitializeAll(b.settings) {
		b.log.Warn("some components failed to start, continuing with the rest")
	}
	if len(b.orchestrator.Live()) == 0 {
		return fmt.Errorf("no component started")
	}
	defer b.orchestrator.FinalizeAll()

	interval := b.interval()
	b.log.Infof("analysis loop started, interval %s", interval)

	// first cycle runs immediately
	b.RunCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("shutting down")
			return ctx.Err()
		case <-ticker.C:
			b.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full analysis pass over every pair and timeframe.
// It reports whether every phase of every batch succeeded.
func (b *Bot) RunCycle(ctx context.Context) bool {
	ok := true
	for _, pair := range b.settings.Pairs {
		for _, timeframe := range b.settings.Timeframes {
			if !b.runBatch(ctx, pair, timeframe) {
				ok = false
			}
		}
	}
	return ok
}

// runBatch drives a single pair/timeframe batch through the four phases.
// A failed phase is logged and the remaining phases still run, each
// component skips on its own when its inputs are missing.
func (b *Bot) runBatch(ctx context.Context, pair, timeframe string) bool {
	batch := core.NewBatch(pair, timeframe)
	log := b.log.WithFields(map[string]any{"pair": pair, "timeframe": timeframe})

	ok := true
	for _, tag := range []string{
		plugins.TagCollect,
		plugins.TagAnalysis,
		plugins.TagConsolidate,
		plugins.TagReport,
	} {
		if !b.dispatcher.RunTagged(ctx, tag, batch) {
			log.Warnf("phase %s finished with failures", tag)
			ok = false
		}
	}

	if batch.Signal != nil && batch.Signal.Actionable() {
		log.Infof("signal: %s score %.2f", batch.Signal.Direction, batch.Signal.Score)
	}

	return ok
}

// interval parses settings.Interval, accepting compound forms like "1h30m"
func (b *Bot) interval() time.Duration {
	if b.settings.Interval == "" {
		return defaultInterval
	}

	interval, err := str2duration.ParseDuration(b.settings.Interval)
	if err != nil {
		b.log.WithError(err).Warnf("invalid interval %q, using %s", b.settings.Interval, defaultInterval)
		return defaultInterval
	}
	return interval
}
