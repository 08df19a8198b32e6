package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

const maxLeverage = 10

// Leverage suggests a leverage multiple inverse to the market's
// volatility: the quieter the market, the more leverage is tolerable.
type Leverage struct {
	plugin.Base
	log logger.Logger
}

// LeverageDescriptor registers the leverage suggestion component
func LeverageDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameLeverage, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate}},
		DependsOn: func() []string { return []string{NameValidator, NameRisk} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Leverage{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameLeverage, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute writes the leverage suggestion onto the risk report
func (l *Leverage) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated || batch.Volatility == nil || batch.Risk == nil {
		return nil
	}

	lastClose := core.Last(batch.Series().Close, 0)
	if lastClose <= 0 || batch.Volatility.ATR <= 0 {
		batch.Risk.Leverage = 1
		return nil
	}

	// ATR as a fraction of price; 1% ATR maps to 5x, capped at 10x
	atrPct := batch.Volatility.ATR / lastClose
	suggestion := int(math.Round(0.05 / atrPct))
	if suggestion < 1 {
		suggestion = 1
	}
	if suggestion > maxLeverage {
		suggestion = maxLeverage
	}

	batch.Risk.Leverage = suggestion
	return nil
}
