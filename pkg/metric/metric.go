// Package metric summarizes stored signals for the stats report.
package metric

import (
	"io"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the scores of a set of signals
type Summary struct {
	Count       int
	Mean        float64
	StdDev      float64
	Median      float64
	P90         float64
	ByDirection map[core.Direction]int
}

// Summarize computes score statistics over the given signals
func Summarize(signals []*core.Signal) Summary {
	summary := Summary{
		Count:       len(signals),
		ByDirection: lo.CountValuesBy(signals, func(s *core.Signal) core.Direction { return s.Direction }),
	}

	if len(signals) == 0 {
		return summary
	}

	scores := Scores(signals)
	sort.Float64s(scores)

	summary.Mean, summary.StdDev = stat.MeanStdDev(scores, nil)
	summary.Median = stat.Quantile(0.5, stat.LinInterp, scores, nil)
	summary.P90 = stat.Quantile(0.9, stat.LinInterp, scores, nil)

	return summary
}

// Scores extracts the score column of the signals
func Scores(signals []*core.Signal) []float64 {
	return lo.Map(signals, func(s *core.Signal, _ int) float64 { return s.Score })
}

// PrintHistogram renders an ASCII histogram of the scores
func PrintHistogram(w io.Writer, scores []float64, bins int) error {
	if len(scores) == 0 {
		return nil
	}
	hist := histogram.Hist(bins, scores)
	return histogram.Fprint(w, hist, histogram.Linear(10))
}

// BootstrapInterval represents the confidence interval calculated by the
// bootstrap method.
type BootstrapInterval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// Bootstrap estimates the confidence interval of a measure over the
// sample using resampling with replacement.
func Bootstrap(values []float64, measure func([]float64) float64, sampleSize int,
	confidence float64) BootstrapInterval {

	if len(values) == 0 {
		return BootstrapInterval{}
	}

	data := make([]float64, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		samples := make([]float64, len(values))
		for j := 0; j < len(values); j++ {
			samples[j] = lo.Sample(values)
		}
		data = append(data, measure(samples))
	}

	tail := 1 - confidence
	sort.Float64s(data)

	mean, stdDev := stat.MeanStdDev(data, nil)
	upper := stat.Quantile(1-tail/2, stat.LinInterp, data, nil)
	lower := stat.Quantile(tail/2, stat.LinInterp, data, nil)

	return BootstrapInterval{
		Lower:  lower,
		Upper:  upper,
		StdDev: stdDev,
		Mean:   mean,
	}
}
