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
	adxPeriod       = 14
	adxTrendFloor   = 20.0
	superTrendATR   = 10
	superTrendScale = 3.0
)

// Trend measures trend presence and direction with ADX, MACD, SAR and
// a SuperTrend confirmation.
type Trend struct {
	plugin.Base
	log logger.Logger
}

// TrendDescriptor registers the trend analysis component
func TrendDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameTrend, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Trend{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameTrend, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the trend report
func (t *Trend) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()
	lastClose := core.Last(series.Close, 0)

	adx := core.Last(indicator.ADX(series.High, series.Low, series.Close, adxPeriod), 0)
	macd, _, hist := indicator.MACD(series.Close, 12, 26, 9)
	sar := core.Last(indicator.SAR(series.High, series.Low, 0.02, 0.2), 0)
	superTrend := core.Last(indicator.SuperTrend(series.High, series.Low, series.Close, superTrendATR, superTrendScale), 0)

	report := &core.TrendReport{
		ADX:      adx,
		MACD:     core.Last(macd, 0),
		MACDHist: core.Last(hist, 0),
		SAR:      sar,
	}

	// each aligned reading strengthens the call
	votes := 0.0
	if report.MACDHist > 0 {
		votes++
	} else if report.MACDHist < 0 {
		votes--
	}
	if lastClose > sar {
		votes++
	} else {
		votes--
	}
	if lastClose > superTrend {
		votes++
	} else {
		votes--
	}

	switch {
	case adx < adxTrendFloor || votes == 0:
		report.Direction = core.Neutral
	case votes > 0:
		report.Direction = core.Long
	default:
		report.Direction = core.Short
	}

	if report.Direction != core.Neutral {
		report.Strength = math.Min((math.Abs(votes)/3)*(adx/50), 1)
	}

	batch.Trend = report
	return nil
}
