package core

import (
	"strings"
	"time"
)

// Direction is the normalized direction of a trading signal
type Direction string

const (
	Long    Direction = "LONG"
	Short   Direction = "SHORT"
	Neutral Direction = "NEUTRAL"
)

// NormalizeDirection maps free-form direction labels (including the
// UP/DOWN vocabulary used by the indicator components) to a Direction.
func NormalizeDirection(value string) Direction {
	switch strings.ToUpper(value) {
	case "UP", "BULL", "BULLISH", "LONG":
		return Long
	case "DOWN", "BEAR", "BEARISH", "SHORT":
		return Short
	default:
		return Neutral
	}
}

// Contribution is one component's vote toward the consolidated signal
type Contribution struct {
	Source    string    // component that produced the vote
	Direction Direction // voted direction
	Score     float64   // confidence in [0, 1]
}

// Signal is the consolidated output of one analysis batch
type Signal struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Pair          string    `json:"pair"`
	Timeframe     string    `json:"timeframe"`
	Direction     Direction `json:"direction"`
	Score         float64   `json:"score"`      // weighted confidence in [0, 1]
	Agreement     float64   `json:"agreement"`  // share of votes on the winning side
	Leverage      int       `json:"leverage"`   // suggested leverage, 0 when unset
	StopLoss      float64   `json:"stop_loss"`
	TakeProfit    float64   `json:"take_profit"`
	Contributions int       `json:"contributions"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"index"`
}

// Actionable reports whether the signal points to a tradeable direction
func (s Signal) Actionable() bool {
	return s.Direction != Neutral && s.Score > 0
}
