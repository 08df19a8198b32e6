package storage

import (
	"fmt"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// SQLStorage implements SignalStorage using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (SignalStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Auto migrate the signal model
	err = db.AutoMigrate(&core.Signal{})
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{
		db: db,
	}, nil
}

// CreateSignal creates a new signal in the SQL database
func (s *SQLStorage) CreateSignal(signal *core.Signal) error {
	result := s.db.Create(signal)
	if result.Error != nil {
		return fmt.Errorf("failed to create signal: %w", result.Error)
	}

	return nil
}

// UpdateSignal updates an existing signal in the SQL database
func (s *SQLStorage) UpdateSignal(signal *core.Signal) error {
	var existing core.Signal
	result := s.db.First(&existing, signal.ID)
	if result.Error != nil {
		return fmt.Errorf("signal not found: %w", result.Error)
	}

	result = s.db.Save(signal)
	if result.Error != nil {
		return fmt.Errorf("failed to update signal: %w", result.Error)
	}

	return nil
}

// Signals retrieves signals from the SQL database based on provided filters
func (s *SQLStorage) Signals(filters ...SignalFilter) ([]*core.Signal, error) {
	var signals []*core.Signal

	result := s.db.Find(&signals)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to fetch signals: %w", result.Error)
	}

	// Filters run in memory; the sets involved are small
	filtered := lo.Filter(signals, func(signal *core.Signal, _ int) bool {
		for _, filter := range filters {
			if !filter(*signal) {
				return false
			}
		}
		return true
	})

	return filtered, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

// WithTransaction executes the given function within a database transaction
func (s *SQLStorage) WithTransaction(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
