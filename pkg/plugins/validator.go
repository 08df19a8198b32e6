package plugins

import (
	"context"
	"fmt"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// minCandles is the shortest window the indicator components can work
// with; the slow averages need at least this much history.
const minCandles = 60

// Validator gates the analysis phase: candles must exist, be in
// chronological order and carry sane prices before anything reads them.
type Validator struct {
	plugin.Base
	log logger.Logger
}

// ValidatorDescriptor registers the data validation component
func ValidatorDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: NameValidator, Category: plugin.CategoryPlugin, Tags: []string{TagCollect}},
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return &Validator{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameValidator, Category: plugin.CategoryPlugin, Tags: []string{TagCollect},
				}},
				log: log,
			}, nil
		},
	}
}

// Execute checks the collected candle window and marks the batch as
// validated. An invalid window fails the batch so the analysis phase
// skips it.
func (v *Validator) Execute(ctx context.Context, batch *core.Batch) error {
	batch.Validated = false

	if len(batch.Candles) == 0 {
		return fmt.Errorf("no candles collected for %s %s", batch.Pair, batch.Timeframe)
	}
	if len(batch.Candles) < minCandles {
		return fmt.Errorf("only %d candles for %s %s, need %d", len(batch.Candles), batch.Pair, batch.Timeframe, minCandles)
	}

	for i, candle := range batch.Candles {
		if candle.IsEmpty() || candle.Close <= 0 || candle.High < candle.Low {
			return fmt.Errorf("corrupt candle at index %d for %s %s", i, batch.Pair, batch.Timeframe)
		}
		if i > 0 && !candle.Time.After(batch.Candles[i-1].Time) {
			return fmt.Errorf("candles out of order at index %d for %s %s", i, batch.Pair, batch.Timeframe)
		}
	}

	batch.Validated = true
	return nil
}
