// Package exchange provides the market data feeders. The Binance spot
// client is the production implementation; tests use in-memory fakes.
package exchange

import (
	"context"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/bitwatcher/pkg/core"
)

// Feeder supplies candles and quotes for the analysis pipeline
type Feeder interface {
	AssetsInfo(pair string) core.AssetInfo
	LastQuote(ctx context.Context, pair string) (float64, error)
	CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error)
	CandlesByPeriod(ctx context.Context, pair, period string, start, end time.Time) ([]core.Candle, error)
}

// quoteAssets holds the quote currencies recognized by SplitAssetQuote,
// most specific first.
var quoteAssets = set.NewLinkedHashSetString("USDT", "BUSD", "USDC", "BTC", "ETH", "BNB")

// SplitAssetQuote splits a trading pair into asset and quote parts
func SplitAssetQuote(pair string) (asset, quote string) {
	for q := range quoteAssets.Iter() {
		if len(pair) > len(q) && pair[len(pair)-len(q):] == q {
			return pair[:len(pair)-len(q)], q
		}
	}

	// fallback: assume a three-letter quote
	if len(pair) > 3 {
		return pair[:len(pair)-3], pair[len(pair)-3:]
	}

	return pair, ""
}
