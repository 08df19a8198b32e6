package core

// Batch is the shared context of one analysis pass over a single
// pair/timeframe slice. Components fill their own typed field instead of
// writing arbitrary keys into a shared map, so the contract between
// producers and consumers is visible at compile time.
type Batch struct {
	Pair      string
	Timeframe string

	// Filled by the market data component
	Candles   []Candle
	Validated bool
	Sentiment *MarketSentiment

	// Analysis contributions
	Patterns    []PatternMatch
	Averages    *MovingAverages
	Trend       *TrendReport
	Oscillators *OscillatorReport
	Volatility  *VolatilityReport
	Volume      *VolumeReport
	PriceAction *PriceActionReport
	Anomaly     *AnomalyReport
	Risk        *RiskReport

	// Consolidated output
	Signal *Signal
}

// NewBatch creates an empty batch context for one pair/timeframe slice
func NewBatch(pair, timeframe string) *Batch {
	return &Batch{Pair: pair, Timeframe: timeframe}
}

// Series returns the OHLCV columns of the batch candles
func (b *Batch) Series() Series { return NewSeries(b.Candles) }

// MarketSentiment carries external market mood data (Fear & Greed index)
type MarketSentiment struct {
	FearGreedValue int
	FearGreedLabel string
}

// PatternMatch is a candlestick pattern detected on the last candles
type PatternMatch struct {
	Name      string
	Direction Direction
	Strength  float64 // talib pattern output normalized to [0, 1]
}

// MovingAverages holds the last value of each configured average
type MovingAverages struct {
	Fast      float64
	Medium    float64
	Slow      float64
	Direction Direction
}

// TrendReport summarizes trend-following indicators
type TrendReport struct {
	ADX       float64
	MACD      float64
	MACDHist  float64
	SAR       float64
	Direction Direction
	Strength  float64
}

// OscillatorReport summarizes momentum oscillators
type OscillatorReport struct {
	RSI       float64
	StochK    float64
	StochD    float64
	CCI       float64
	MFI       float64
	Direction Direction
	Strength  float64
}

// VolatilityReport summarizes volatility indicators
type VolatilityReport struct {
	ATR            float64
	BandUpper      float64
	BandLower      float64
	BandWidth      float64
	RelativeStdDev float64 // stddev of closes relative to last close
}

// VolumeReport summarizes volume-based indicators
type VolumeReport struct {
	OBV       float64
	ADLine    float64
	Direction Direction
	Strength  float64
}

// PriceActionReport summarizes raw price structure
type PriceActionReport struct {
	HigherHighs bool
	LowerLows   bool
	LastSwing   float64
	Direction   Direction
	Strength    float64
}

// AnomalyReport flags unusual market behavior on the newest candle
// relative to the trailing window
type AnomalyReport struct {
	VolumeZScore float64
	ReturnZScore float64
	Flags        []string
}

// Anomalous reports whether any flag was raised
func (a AnomalyReport) Anomalous() bool { return len(a.Flags) > 0 }

// RiskReport is the output of the risk assessment components
type RiskReport struct {
	StopLoss    float64
	TakeProfit  float64
	MaxExposure float64 // fraction of capital, in (0, 1]
	Leverage    int     // suggested multiple, 0 until computed
}
