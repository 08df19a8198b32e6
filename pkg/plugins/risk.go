package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

const (
	stopATRMultiple   = 2.0
	targetATRMultiple = 3.0
	baseExposure      = 0.1 // fraction of capital per position
)

// Risk derives stop, target and exposure limits from the volatility
// report.
type Risk struct {
	plugin.Base
	log logger.Logger
}

// RiskDescriptor registers the risk assessment component
func RiskDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameRisk, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate}},
		DependsOn: func() []string { return []string{NameValidator, NameVolatility} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Risk{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameRisk, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the risk report. Stops hug the price by a multiple of
// ATR; exposure shrinks as the bands widen.
func (r *Risk) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated || batch.Volatility == nil {
		return nil
	}

	lastClose := core.Last(batch.Series().Close, 0)
	atr := batch.Volatility.ATR

	report := &core.RiskReport{
		StopLoss:    lastClose - atr*stopATRMultiple,
		TakeProfit:  lastClose + atr*targetATRMultiple,
		MaxExposure: baseExposure,
	}

	// wide bands mean an unstable market, halve the exposure
	if batch.Volatility.BandWidth > 0.1 || batch.Volatility.RelativeStdDev > 0.05 {
		report.MaxExposure = baseExposure / 2
	}
	report.MaxExposure = math.Max(report.MaxExposure, 0.01)

	batch.Risk = report
	return nil
}
