package plugins

import (
	"context"
	"math"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/samber/lo"
)

// minAgreement is the share of weighted votes the winning side needs
// before the signal leaves Neutral.
const minAgreement = 0.5

// Signals merges the analysis reports into one weighted signal
type Signals struct {
	plugin.Base
	log logger.Logger
}

// SignalsDescriptor registers the signal consolidation component
func SignalsDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: NameSignals, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate}},
		DependsOn: func() []string {
			return []string{
				NamePatterns, NameAverages, NameTrend, NameOscillators,
				NameVolatility, NameVolume, NamePriceAction,
			}
		},
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Signals{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameSignals, Category: plugin.CategoryPlugin, Tags: []string{TagConsolidate},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute collects the per-component votes and writes the consolidated
// signal onto the batch.
func (s *Signals) Execute(ctx context.Context, batch *core.Batch) error {
	if !batch.Validated {
		return nil
	}

	votes := s.collectVotes(batch)
	if len(votes) == 0 {
		return nil
	}

	signal := s.consolidate(batch, votes)
	batch.Signal = signal

	s.log.WithFields(map[string]any{
		"pair":      batch.Pair,
		"timeframe": batch.Timeframe,
		"direction": signal.Direction,
		"score":     signal.Score,
	}).Info("signal consolidated")

	return nil
}

// collectVotes turns each filled report into a contribution
func (s *Signals) collectVotes(batch *core.Batch) []core.Contribution {
	votes := make([]core.Contribution, 0, 8)

	if batch.Averages != nil {
		votes = append(votes, core.Contribution{
			Source: NameAverages, Direction: batch.Averages.Direction, Score: 1,
		})
	}
	if batch.Trend != nil {
		votes = append(votes, core.Contribution{
			Source: NameTrend, Direction: batch.Trend.Direction, Score: batch.Trend.Strength,
		})
	}
	if batch.Oscillators != nil {
		votes = append(votes, core.Contribution{
			Source: NameOscillators, Direction: batch.Oscillators.Direction, Score: batch.Oscillators.Strength,
		})
	}
	if batch.Volume != nil {
		votes = append(votes, core.Contribution{
			Source: NameVolume, Direction: batch.Volume.Direction, Score: batch.Volume.Strength,
		})
	}
	if batch.PriceAction != nil {
		votes = append(votes, core.Contribution{
			Source: NamePriceAction, Direction: batch.PriceAction.Direction, Score: batch.PriceAction.Strength,
		})
	}
	for _, match := range batch.Patterns {
		votes = append(votes, core.Contribution{
			Source: NamePatterns, Direction: match.Direction, Score: match.Strength,
		})
	}

	// extreme fear and greed lean against the crowd
	if batch.Sentiment != nil {
		if batch.Sentiment.FearGreedValue <= 20 {
			votes = append(votes, core.Contribution{Source: "sentiment", Direction: core.Long, Score: 0.5})
		} else if batch.Sentiment.FearGreedValue >= 80 {
			votes = append(votes, core.Contribution{Source: "sentiment", Direction: core.Short, Score: 0.5})
		}
	}

	return votes
}

// consolidate reduces the votes to a single weighted direction
func (s *Signals) consolidate(batch *core.Batch, votes []core.Contribution) *core.Signal {
	weight := func(source string) float64 {
		if w, ok := s.Settings.SignalWeights[source]; ok {
			return w
		}
		return 1.0
	}

	longWeight := 0.0
	shortWeight := 0.0
	totalWeight := 0.0

	for _, vote := range votes {
		w := weight(vote.Source) * vote.Score
		totalWeight += weight(vote.Source)

		switch core.NormalizeDirection(string(vote.Direction)) {
		case core.Long:
			longWeight += w
		case core.Short:
			shortWeight += w
		}
	}

	signal := &core.Signal{
		Pair:          batch.Pair,
		Timeframe:     batch.Timeframe,
		Direction:     core.Neutral,
		Contributions: len(votes),
	}

	if totalWeight <= 0 {
		return signal
	}

	winning, losing := longWeight, shortWeight
	direction := core.Long
	if shortWeight > longWeight {
		winning, losing = shortWeight, longWeight
		direction = core.Short
	}

	decided := lo.Filter(votes, func(v core.Contribution, _ int) bool {
		return core.NormalizeDirection(string(v.Direction)) != core.Neutral
	})

	signal.Agreement = 0
	if len(decided) > 0 {
		onWinningSide := lo.CountBy(decided, func(v core.Contribution) bool {
			return core.NormalizeDirection(string(v.Direction)) == direction
		})
		signal.Agreement = float64(onWinningSide) / float64(len(decided))
	}

	if winning > losing && signal.Agreement >= minAgreement {
		signal.Direction = direction
		signal.Score = math.Min(winning/totalWeight, 1)
	}

	// attach the risk numbers when the batch produced them
	if batch.Risk != nil {
		signal.StopLoss = batch.Risk.StopLoss
		signal.TakeProfit = batch.Risk.TakeProfit
		signal.Leverage = batch.Risk.Leverage
	}

	return signal
}
