package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/indicator"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

const volumeSignalPeriod = 21

// Volume checks whether money flow confirms the price move
type Volume struct {
	plugin.Base
	log logger.Logger
}

// VolumeDescriptor registers the volume component
func VolumeDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameVolume, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis}},
		DependsOn: func() []string { return []string{NameMarketData} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Volume{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameVolume, Category: plugin.CategoryPlugin, Tags: []string{TagAnalysis},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute fills the volume report
func (v *Volume) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	series := batch.Series()

	obv := core.Column[float64](indicator.OBV(series.Close, series.Volume))
	obvSignal := core.Column[float64](indicator.EMA(obv, volumeSignalPeriod))
	adLine := indicator.AD(series.High, series.Low, series.Close, series.Volume)

	report := &core.VolumeReport{
		OBV:    obv.Last(0),
		ADLine: core.Last(adLine, 0),
	}

	votes := 0.0
	if obv.Last(0) > obvSignal.Last(0) {
		votes++
	} else if obv.Last(0) < obvSignal.Last(0) {
		votes--
	}
	if core.Last(adLine, 0) > core.Last(adLine, 1) {
		votes++
	} else if core.Last(adLine, 0) < core.Last(adLine, 1) {
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
	report.Strength = math.Abs(votes) / 2

	batch.Volume = report
	return nil
}
