package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"gonum.org/v1/gonum/stat"
)

const (
	anomalyWindow = 50
	anomalyBar    = 3.0 // z-score a reading must cross to be flagged
)

// Anomaly watches the newest candle for behavior far outside the
// trailing window: volume spikes and price shocks. The report is
// diagnostic, it never votes on direction.
type Anomaly struct {
	plugin.Base
	log logger.Logger
}

// AnomalyDescriptor registers the anomaly monitor
func AnomalyDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameAnomaly, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData, NameValidator} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Anomaly{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameAnomaly, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute scores the newest candle against the trailing window
func (a *Anomaly) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()
	if series.Len() < anomalyWindow+2 {
		return nil
	}

	returns := closeReturns(series.Close)

	report := &core.AnomalyReport{
		VolumeZScore: trailingZScore(series.Volume, anomalyWindow),
		ReturnZScore: trailingZScore(returns, anomalyWindow),
	}

	if math.Abs(report.VolumeZScore) >= anomalyBar {
		report.Flags = append(report.Flags, "volume_spike")
	}
	if math.Abs(report.ReturnZScore) >= anomalyBar {
		report.Flags = append(report.Flags, "price_shock")
	}

	if report.Anomalous() {
		a.log.WithFields(map[string]any{
			"pair":      batch.Pair,
			"timeframe": batch.Timeframe,
			"flags":     report.Flags,
		}).Warn("market anomaly detected")
	}

	batch.Anomaly = report
	return nil
}

// closeReturns computes the close-to-close relative changes
func closeReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// trailingZScore scores the newest value against the window of values
// preceding it. A flat window scores zero.
func trailingZScore(values []float64, window int) float64 {
	if len(values) < window+1 {
		return 0
	}

	trailing := values[len(values)-window-1 : len(values)-1]
	mean, stdDev := stat.MeanStdDev(trailing, nil)
	if stdDev == 0 {
		return 0
	}

	return (core.Last(values, 0) - mean) / stdDev
}
