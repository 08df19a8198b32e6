package indicator

import "github.com/markcheno/go-talib"

// SuperTrend computes the SuperTrend line: an ATR band that flips side
// when price closes through it. Price above the line reads as an
// uptrend, below as a downtrend.
func SuperTrend(high, low, close []float64, atrPeriod int, factor float64) []float64 {
	n := len(close)
	if n == 0 {
		return []float64{}
	}

	atr := talib.Atr(high, low, close, atrPeriod)
	line := make([]float64, n)

	var upper, lower float64
	for i := 1; i < n; i++ {
		median := (high[i] + low[i]) / 2.0
		rawUpper := median + atr[i]*factor
		rawLower := median - atr[i]*factor

		prevUpper := upper
		if rawUpper < upper || close[i-1] > upper {
			upper = rawUpper
		}
		if rawLower > lower || close[i-1] < lower {
			lower = rawLower
		}

		// the line sticks to the band it was on until price breaks it
		if line[i-1] == prevUpper {
			if close[i] > upper {
				line[i] = lower
			} else {
				line[i] = upper
			}
		} else {
			if close[i] < lower {
				line[i] = upper
			} else {
				line[i] = lower
			}
		}
	}

	return line
}
