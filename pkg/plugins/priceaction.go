package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// swingWindow is the number of candles on each side that must be lower
// (or higher) for a candle to count as a swing point.
const swingWindow = 3

// PriceAction reads the raw market structure: swing highs and lows
type PriceAction struct {
	plugin.Base
	log logger.Logger
}

// PriceActionDescriptor registers the price structure component
func PriceActionDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NamePriceAction, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &PriceAction{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NamePriceAction, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the price action report
func (p *PriceAction) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()
	swingHighs := swingPoints(series.High, true)
	swingLows := swingPoints(series.Low, false)

	report := &core.PriceActionReport{}

	if len(swingHighs) >= 2 {
		report.HigherHighs = swingHighs[len(swingHighs)-1] > swingHighs[len(swingHighs)-2]
	}
	if len(swingLows) >= 2 {
		report.LowerLows = swingLows[len(swingLows)-1] < swingLows[len(swingLows)-2]
	}
	if len(swingLows) > 0 {
		report.LastSwing = swingLows[len(swingLows)-1]
	}

	higherLows := len(swingLows) >= 2 && swingLows[len(swingLows)-1] > swingLows[len(swingLows)-2]
	lowerHighs := len(swingHighs) >= 2 && swingHighs[len(swingHighs)-1] < swingHighs[len(swingHighs)-2]

	votes := 0.0
	if report.HigherHighs {
		votes++
	}
	if higherLows {
		votes++
	}
	if report.LowerLows {
		votes--
	}
	if lowerHighs {
		votes--
	}

	switch {
	case votes > 0:
		report.Direction = core.Long
	case votes < 0:
		report.Direction = core.Short
	default:
		report.Direction = core.Neutral
	}
	report.Strength = math.Min(math.Abs(votes)/2, 1)

	batch.PriceAction = report
	return nil
}

// swingPoints extracts the local extremes of values. A point qualifies
// when it beats every neighbor within swingWindow on both sides.
func swingPoints(values []float64, high bool) []float64 {
	points := make([]float64, 0, 8)

	for i := swingWindow; i < len(values)-swingWindow; i++ {
		isSwing := true
		for j := i - swingWindow; j <= i+swingWindow && isSwing; j++ {
			if j == i {
				continue
			}
			if high && values[j] >= values[i] {
				isSwing = false
			}
			if !high && values[j] <= values[i] {
				isSwing = false
			}
		}
		if isSwing {
			points = append(points, values[i])
		}
	}

	return points
}
