package plugins

import (
	"fmt"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/raykavin/bitwatcher/pkg/storage"
)

// StorageManager owns the signal database. It is a manager component:
// it has no execution phase, other components reach it for persistence.
type StorageManager struct {
	plugin.Base
	log logger.Logger

	store storage.SignalStorage
	open  func(settings *core.Settings) (storage.SignalStorage, error)
}

// storageTables is the schema metadata declared to the orchestrator
var storageTables = map[string]plugin.TableSpec{
	"signals": {
		Columns: map[string]string{
			"id":            "INTEGER",
			"pair":          "TEXT",
			"timeframe":     "TEXT",
			"direction":     "TEXT",
			"score":         "REAL",
			"agreement":     "REAL",
			"leverage":      "INTEGER",
			"stop_loss":     "REAL",
			"take_profit":   "REAL",
			"contributions": "INTEGER",
			"created_at":    "TIMESTAMP",
			"updated_at":    "TIMESTAMP",
		},
	},
}

// StorageManagerDescriptor registers the storage manager
func StorageManagerDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: NameStorageManager, Category: plugin.CategoryManager},
		Tables:   storageTables,
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			return NewStorageManager(log), nil
		},
	}
}

// NewStorageManager creates the storage manager with the default
// driver selection.
func NewStorageManager(log logger.Logger) *StorageManager {
	m := &StorageManager{
		Base: plugin.Base{Meta: plugin.Metadata{Name: NameStorageManager, Category: plugin.CategoryManager}},
		log:  log,
	}
	m.open = m.openFromSettings
	return m
}

// StorageManagerWithStore registers the manager over an already built
// store, the path for backends needing more than the settings carry
// (storage.FromSQL with a gorm dialector). The manager still owns the
// store and closes it on Finalize.
func StorageManagerWithStore(log logger.Logger, store storage.SignalStorage) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata: plugin.Metadata{Name: NameStorageManager, Category: plugin.CategoryManager},
		Tables:   storageTables,
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			m := NewStorageManager(log)
			m.open = func(*core.Settings) (storage.SignalStorage, error) {
				return store, nil
			}
			return m, nil
		},
	}
}

// Initialize opens the configured backend
func (m *StorageManager) Initialize(settings *core.Settings) error {
	if m.Initialized() {
		return nil
	}

	store, err := m.open(settings)
	if err != nil {
		return err
	}

	m.store = store
	m.Ready(settings)
	return nil
}

// Store returns the live signal storage
func (m *StorageManager) Store() storage.SignalStorage { return m.store }

// Finalize closes the database
func (m *StorageManager) Finalize() {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.WithError(err).Warn("failed to close signal storage")
		}
		m.store = nil
	}
	m.Reset()
}

func (m *StorageManager) openFromSettings(settings *core.Settings) (storage.SignalStorage, error) {
	driver := ""
	if settings != nil {
		driver = settings.Storage.Driver
	}

	switch driver {
	case "", "buntdb":
		if settings == nil || settings.Storage.Path == "" {
			return storage.FromMemory()
		}
		return storage.FromFile(settings.Storage.Path)
	case "sql":
		// the SQL store needs a gorm dialector the settings cannot carry;
		// build it with storage.FromSQL and register the manager through
		// StorageManagerWithStore
		return nil, fmt.Errorf("storage driver %q requires an injected store, see StorageManagerWithStore", driver)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
