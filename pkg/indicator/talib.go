// Package indicator wraps the talib primitives used by the analysis
// components, grouped by the report they feed.
package indicator

import "github.com/markcheno/go-talib"

// MaType represents moving average type
type MaType = talib.MaType

const (
	TypeSMA = talib.SMA
	TypeEMA = talib.EMA
	TypeWMA = talib.WMA
)

// ------------------------------------------
// Overlap studies (averages, bands)
// ------------------------------------------

// SMA calculates Simple Moving Average
func SMA(input []float64, period int) []float64 {
	return talib.Sma(input, period)
}

// EMA calculates Exponential Moving Average
func EMA(input []float64, period int) []float64 {
	return talib.Ema(input, period)
}

// WMA calculates Weighted Moving Average
func WMA(input []float64, period int) []float64 {
	return talib.Wma(input, period)
}

// MA calculates a moving average of the given type
func MA(input []float64, period int, maType MaType) []float64 {
	return talib.Ma(input, period, maType)
}

// BB calculates Bollinger Bands
// Returns upper, middle, and lower bands
func BB(input []float64, period int, deviation float64, maType MaType) ([]float64, []float64, []float64) {
	return talib.BBands(input, period, deviation, deviation, maType)
}

// SAR calculates Parabolic SAR (Stop And Reverse)
func SAR(high, low []float64, acceleration, maximum float64) []float64 {
	return talib.Sar(high, low, acceleration, maximum)
}

// ------------------------------------------
// Trend strength
// ------------------------------------------

// ADX calculates Average Directional Movement Index
func ADX(high, low, close []float64, period int) []float64 {
	return talib.Adx(high, low, close, period)
}

// MACD calculates Moving Average Convergence Divergence
// Returns MACD line, signal line, and histogram
func MACD(input []float64, fastPeriod, slowPeriod, signalPeriod int) ([]float64, []float64, []float64) {
	return talib.Macd(input, fastPeriod, slowPeriod, signalPeriod)
}

// ------------------------------------------
// Momentum oscillators
// ------------------------------------------

// RSI calculates Relative Strength Index
func RSI(input []float64, period int) []float64 {
	return talib.Rsi(input, period)
}

// Stoch calculates the Stochastic oscillator
// Returns slow K and slow D
func Stoch(high, low, close []float64, fastKPeriod, slowKPeriod int,
	slowKMAType MaType, slowDPeriod int, slowDMAType MaType) ([]float64, []float64) {
	return talib.Stoch(high, low, close, fastKPeriod, slowKPeriod, slowKMAType, slowDPeriod, slowDMAType)
}

// CCI calculates Commodity Channel Index
func CCI(high, low, close []float64, period int) []float64 {
	return talib.Cci(high, low, close, period)
}

// MFI calculates Money Flow Index
func MFI(high, low, close, volume []float64, period int) []float64 {
	return talib.Mfi(high, low, close, volume, period)
}

// WilliamsR calculates Williams %R
func WilliamsR(high, low, close []float64, period int) []float64 {
	return talib.WillR(high, low, close, period)
}

// ------------------------------------------
// Volatility
// ------------------------------------------

// ATR calculates Average True Range
func ATR(high, low, close []float64, period int) []float64 {
	return talib.Atr(high, low, close, period)
}

// StdDev calculates the rolling standard deviation
func StdDev(input []float64, period int, nbDev float64) []float64 {
	return talib.StdDev(input, period, nbDev)
}

// ------------------------------------------
// Volume
// ------------------------------------------

// OBV calculates On Balance Volume
func OBV(input, volume []float64) []float64 {
	return talib.Obv(input, volume)
}

// AD calculates the Chaikin Accumulation/Distribution line
func AD(high, low, close, volume []float64) []float64 {
	return talib.Ad(high, low, close, volume)
}
