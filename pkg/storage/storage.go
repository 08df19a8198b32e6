// Package storage persists the consolidated signals. Two backends are
// available: BuntDB for embedded file or memory storage, and any SQL
// database GORM can open.
package storage

import (
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
)

// SignalStorage is the persistence contract used by the signal store
// component.
type SignalStorage interface {
	CreateSignal(signal *core.Signal) error
	UpdateSignal(signal *core.Signal) error
	Signals(filters ...SignalFilter) ([]*core.Signal, error)
	Close() error
}

// SignalFilter selects signals on read
type SignalFilter func(signal core.Signal) bool

// WithPair filters signals by trading pair
func WithPair(pair string) SignalFilter {
	return func(signal core.Signal) bool {
		return signal.Pair == pair
	}
}

// WithTimeframe filters signals by timeframe
func WithTimeframe(timeframe string) SignalFilter {
	return func(signal core.Signal) bool {
		return signal.Timeframe == timeframe
	}
}

// WithDirection filters signals by direction
func WithDirection(direction core.Direction) SignalFilter {
	return func(signal core.Signal) bool {
		return signal.Direction == direction
	}
}

// WithActionable keeps only signals pointing to a tradeable direction
func WithActionable() SignalFilter {
	return func(signal core.Signal) bool {
		return signal.Actionable()
	}
}

// CreatedAfter filters signals created after the given time
func CreatedAfter(t time.Time) SignalFilter {
	return func(signal core.Signal) bool {
		return signal.CreatedAt.After(t)
	}
}
