package plugins

import (
	"context"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/indicator"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// Moving average periods
const (
	fastPeriod   = 9
	mediumPeriod = 21
	slowPeriod   = 55
)

// Averages reads the trend from the stack of exponential averages
type Averages struct {
	plugin.Base
	log logger.Logger
}

// AveragesDescriptor registers the moving averages component
func AveragesDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameAverages, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Averages{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameAverages, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute computes the EMA stack and its direction
func (a *Averages) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()
	fast := core.Column[float64](indicator.EMA(series.Close, fastPeriod))
	medium := core.Column[float64](indicator.EMA(series.Close, mediumPeriod))
	slow := core.Column[float64](indicator.EMA(series.Close, slowPeriod))

	report := &core.MovingAverages{
		Fast:   fast.Last(0),
		Medium: medium.Last(0),
		Slow:   slow.Last(0),
	}

	switch {
	case report.Fast > report.Medium && report.Medium > report.Slow:
		report.Direction = core.Long
	case report.Fast < report.Medium && report.Medium < report.Slow:
		report.Direction = core.Short
	case fast.Crossover(medium):
		report.Direction = core.Long
	case fast.Crossunder(medium):
		report.Direction = core.Short
	default:
		report.Direction = core.Neutral
	}

	batch.Averages = report
	return nil
}
