package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/tidwall/buntdb"
)

// BuntStorage implements SignalStorage using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (SignalStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (SignalStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (SignalStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("update_index", "*", buntdb.IndexJSON("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	// resume the ID sequence after the stored signals so a reopened
	// database never hands out an ID that is already taken
	var lastID int64
	err = db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(key, _ string) bool {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > lastID {
				lastID = id
			}
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stored signals: %w", err)
	}

	return &BuntStorage{
		lastID: lastID,
		db:     db,
	}, nil
}

// getID generates a unique ID for signals
func (b *BuntStorage) getID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateSignal stores a new signal in the database
func (b *BuntStorage) CreateSignal(signal *core.Signal) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		signal.ID = b.getID()
		content, err := json.Marshal(signal)
		if err != nil {
			return fmt.Errorf("failed to marshal signal: %w", err)
		}

		_, _, err = tx.Set(strconv.FormatInt(signal.ID, 10), string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store signal: %w", err)
		}

		return nil
	})
}

// UpdateSignal updates an existing signal in the database
func (b *BuntStorage) UpdateSignal(signal *core.Signal) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		id := strconv.FormatInt(signal.ID, 10)

		// Check if signal exists
		_, err := tx.Get(id)
		if err != nil {
			return fmt.Errorf("signal not found: %w", err)
		}

		content, err := json.Marshal(signal)
		if err != nil {
			return fmt.Errorf("failed to marshal signal: %w", err)
		}

		_, _, err = tx.Set(id, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to update signal: %w", err)
		}

		return nil
	})
}

// Signals retrieves signals from the database based on provided filters
func (b *BuntStorage) Signals(filters ...SignalFilter) ([]*core.Signal, error) {
	signals := make([]*core.Signal, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend("update_index", func(_, value string) bool {
			var signal core.Signal
			err := json.Unmarshal([]byte(value), &signal)
			if err != nil {
				log.Printf("Failed to unmarshal signal: %v", err)
				return true // Continue iteration
			}

			// Apply all filters
			for _, filter := range filters {
				if !filter(signal) {
					return true // Skip this signal and continue iteration
				}
			}

			signals = append(signals, &signal)
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over signals: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return signals, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
