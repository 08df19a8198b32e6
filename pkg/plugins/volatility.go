package plugins

import (
	"context"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/indicator"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"gonum.org/v1/gonum/stat"
)

const (
	atrPeriod    = 14
	bandPeriod   = 20
	stdDevWindow = 20
)

// Volatility measures how wide the market is moving; the risk component
// scales stops and exposure from this report.
type Volatility struct {
	plugin.Base
	log logger.Logger
}

// VolatilityDescriptor registers the volatility component
func VolatilityDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameVolatility, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Volatility{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameVolatility, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the volatility report
func (v *Volatility) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()
	lastClose := core.Last(series.Close, 0)

	atr := core.Last(indicator.ATR(series.High, series.Low, series.Close, atrPeriod), 0)
	upper, _, lower := indicator.BB(series.Close, bandPeriod, 2, indicator.TypeSMA)

	report := &core.VolatilityReport{
		ATR:       atr,
		BandUpper: core.Last(upper, 0),
		BandLower: core.Last(lower, 0),
	}
	if lastClose > 0 {
		report.BandWidth = (report.BandUpper - report.BandLower) / lastClose
	}

	tail := core.Column[float64](series.Close).Tail(stdDevWindow)
	if lastClose > 0 {
		report.RelativeStdDev = stat.StdDev(tail, nil) / lastClose
	}

	batch.Volatility = report
	return nil
}
