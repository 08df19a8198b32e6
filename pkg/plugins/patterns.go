package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// Patterns scans the newest candles for classic reversal shapes. The
// talib port carries no pattern functions, so the shapes are measured
// directly on the candle bodies.
type Patterns struct {
	plugin.Base
	log logger.Logger
}

// PatternsDescriptor registers the candlestick pattern component
func PatternsDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NamePatterns, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData, NameValidator} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Patterns{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NamePatterns, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute detects patterns on the last two candles
func (p *Patterns) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	n := len(batch.Candles)
	last := batch.Candles[n-1]
	prev := batch.Candles[n-2]

	matches := make([]core.PatternMatch, 0, 4)

	if match, ok := engulfing(prev, last); ok {
		matches = append(matches, match)
	}
	if match, ok := hammer(last); ok {
		matches = append(matches, match)
	}
	if match, ok := shootingStar(last); ok {
		matches = append(matches, match)
	}
	if match, ok := doji(last); ok {
		matches = append(matches, match)
	}

	batch.Patterns = matches
	return nil
}

func body(c core.Candle) float64 { return math.Abs(c.Close - c.Open) }

func spread(c core.Candle) float64 { return c.High - c.Low }

// engulfing detects a bullish or bearish engulfing pair
func engulfing(prev, last core.Candle) (core.PatternMatch, bool) {
	if body(prev) == 0 || body(last) <= body(prev) {
		return core.PatternMatch{}, false
	}

	bullish := last.Close > last.Open && prev.Close < prev.Open &&
		last.Close >= prev.Open && last.Open <= prev.Close
	bearish := last.Close < last.Open && prev.Close > prev.Open &&
		last.Open >= prev.Close && last.Close <= prev.Open

	if !bullish && !bearish {
		return core.PatternMatch{}, false
	}

	direction := core.Long
	if bearish {
		direction = core.Short
	}

	strength := math.Min(body(last)/(body(prev)*2), 1)
	return core.PatternMatch{Name: "engulfing", Direction: direction, Strength: strength}, true
}

// hammer detects a long lower shadow with a small body near the high
func hammer(c core.Candle) (core.PatternMatch, bool) {
	s := spread(c)
	if s == 0 || body(c) == 0 {
		return core.PatternMatch{}, false
	}

	lowerShadow := math.Min(c.Open, c.Close) - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)

	if lowerShadow < body(c)*2 || upperShadow > body(c) {
		return core.PatternMatch{}, false
	}

	return core.PatternMatch{
		Name:      "hammer",
		Direction: core.Long,
		Strength:  math.Min(lowerShadow/s, 1),
	}, true
}

// shootingStar is the hammer mirrored: long upper shadow near the low
func shootingStar(c core.Candle) (core.PatternMatch, bool) {
	s := spread(c)
	if s == 0 || body(c) == 0 {
		return core.PatternMatch{}, false
	}

	lowerShadow := math.Min(c.Open, c.Close) - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)

	if upperShadow < body(c)*2 || lowerShadow > body(c) {
		return core.PatternMatch{}, false
	}

	return core.PatternMatch{
		Name:      "shooting_star",
		Direction: core.Short,
		Strength:  math.Min(upperShadow/s, 1),
	}, true
}

// doji detects a candle with almost no body
func doji(c core.Candle) (core.PatternMatch, bool) {
	s := spread(c)
	if s == 0 || body(c) > s*0.1 {
		return core.PatternMatch{}, false
	}

	return core.PatternMatch{Name: "doji", Direction: core.Neutral, Strength: 0.5}, true
}
