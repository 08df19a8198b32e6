package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAssetQuote(t *testing.T) {
	tests := []struct {
		pair  string
		asset string
		quote string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHBTC", "ETH", "BTC"},
		{"SOLBNB", "SOL", "BNB"},
		{"DOGEUSDC", "DOGE", "USDC"},
		{"ABCXYZ", "ABC", "XYZ"}, // unknown quote falls back to three letters
	}

	for _, tt := range tests {
		asset, quote := SplitAssetQuote(tt.pair)
		require.Equal(t, tt.asset, asset, tt.pair)
		require.Equal(t, tt.quote, quote, tt.pair)
	}
}
