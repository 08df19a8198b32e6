package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/indicator"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

const (
	rsiPeriod     = 14
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Oscillators reads the momentum oscillators looking for exhaustion
type Oscillators struct {
	plugin.Base
	log logger.Logger
}

// OscillatorsDescriptor registers the oscillator component
func OscillatorsDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameOscillators, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Oscillators{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameOscillators, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the oscillator report
func (o *Oscillators) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()

	rsi := core.Last(indicator.RSI(series.Close, rsiPeriod), 0)
	stochK, stochD := indicator.Stoch(series.High, series.Low, series.Close,
		14, 3, indicator.TypeSMA, 3, indicator.TypeSMA)
	cci := core.Last(indicator.CCI(series.High, series.Low, series.Close, 20), 0)
	mfi := core.Last(indicator.MFI(series.High, series.Low, series.Close, series.Volume, 14), 0)

	report := &core.OscillatorReport{
		RSI:    rsi,
		StochK: core.Last(stochK, 0),
		StochD: core.Last(stochD, 0),
		CCI:    cci,
		MFI:    mfi,
	}

	votes := 0.0
	if rsi <= rsiOversold {
		votes++
	} else if rsi >= rsiOverbought {
		votes--
	}
	if report.StochK <= 20 {
		votes++
	} else if report.StochK >= 80 {
		votes--
	}
	if cci <= -100 {
		votes++
	} else if cci >= 100 {
		votes--
	}
	if mfi <= 20 {
		votes++
	} else if mfi >= 80 {
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
	report.Strength = math.Min(math.Abs(votes)/4, 1)

	batch.Oscillators = report
	return nil
}
