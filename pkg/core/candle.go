package core

import (
	"fmt"
	"strconv"
	"time"
)

// Candle represents a trading candle with OHLCV data
type Candle struct {
	Pair      string
	Time      time.Time
	UpdatedAt time.Time
	Open      float64
	Close     float64
	Low       float64
	High      float64
	Volume    float64
	Complete  bool

	// Additional columns from external feeds
	Metadata map[string]float64
}

// IsEmpty checks if the candle contains no significant data
func (c Candle) IsEmpty() bool { return c.Pair == "" && c.Close == 0 && c.Open == 0 && c.Volume == 0 }

// ToSlice converts a candle to a string slice for CSV serialization
// with the specified decimal precision
func (c Candle) ToSlice(precision int) []string {
	return []string{
		fmt.Sprintf("%d", c.Time.Unix()),
		strconv.FormatFloat(c.Open, 'f', precision, 64),
		strconv.FormatFloat(c.Close, 'f', precision, 64),
		strconv.FormatFloat(c.Low, 'f', precision, 64),
		strconv.FormatFloat(c.High, 'f', precision, 64),
		strconv.FormatFloat(c.Volume, 'f', precision, 64),
	}
}

// CandleFromCSVRow parses one row written by ToSlice back into a candle
func CandleFromCSVRow(pair string, row []string) (Candle, error) {
	if len(row) < 6 {
		return Candle{}, fmt.Errorf("candle row needs 6 columns, got %d", len(row))
	}

	unix, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("invalid candle time %q: %w", row[0], err)
	}

	candle := Candle{
		Pair:     pair,
		Time:     time.Unix(unix, 0),
		Complete: true,
		Metadata: make(map[string]float64),
	}
	candle.UpdatedAt = candle.Time

	fields := []*float64{&candle.Open, &candle.Close, &candle.Low, &candle.High, &candle.Volume}
	for i, field := range fields {
		value, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return Candle{}, fmt.Errorf("invalid candle column %d: %w", i+1, err)
		}
		*field = value
	}

	return candle, nil
}

// Series holds the OHLCV columns of a candle window as parallel slices,
// the layout expected by the talib wrappers.
type Series struct {
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewSeries splits a candle window into OHLCV columns.
func NewSeries(candles []Candle) Series {
	s := Series{
		Open:   make([]float64, len(candles)),
		High:   make([]float64, len(candles)),
		Low:    make([]float64, len(candles)),
		Close:  make([]float64, len(candles)),
		Volume: make([]float64, len(candles)),
	}

	for i, c := range candles {
		s.Open[i] = c.Open
		s.High[i] = c.High
		s.Low[i] = c.Low
		s.Close[i] = c.Close
		s.Volume[i] = c.Volume
	}

	return s
}

// Len returns the number of candles in the series
func (s Series) Len() int { return len(s.Close) }

// Last returns the value at the given offset from the end of values,
// or zero when the series is too short.
func Last(values []float64, offset int) float64 {
	idx := len(values) - 1 - offset
	if idx < 0 {
		return 0
	}
	return values[idx]
}
