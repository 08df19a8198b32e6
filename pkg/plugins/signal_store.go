package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// SignalStore persists the consolidated signal of each batch
type SignalStore struct {
	plugin.Base
	log logger.Logger

	manager *StorageManager
}

// SignalStoreDescriptor registers the signal persistence component
func SignalStoreDescriptor(log logger.Logger) *plugin.Descriptor {
	return &plugin.Descriptor{
		Metadata:  plugin.Metadata{Name: NameSignalStore, Category: plugin.CategoryPlugin, Tags: []string{TagReport}},
		DependsOn: func() []string { return []string{NameStorageManager} },
		New: func(deps plugin.Deps) (plugin.Plugin, error) {
			manager, ok := deps.Get(NameStorageManager).(*StorageManager)
			if !ok {
				return nil, fmt.Errorf("signal_store needs the storage manager")
			}
			return &SignalStore{
				Base: plugin.Base{Meta: plugin.Metadata{
					Name: NameSignalStore, Category: plugin.CategoryPlugin, Tags: []string{TagReport},
				}},
				log:     log,
				manager: manager,
			}, nil
		},
	}
}

// Execute writes the batch signal, if the batch produced one
func (s *SignalStore) Execute(ctx context.Context, batch *core.Batch) error {
	if batch.Signal == nil {
		return nil
	}

	now := time.Now()
	batch.Signal.CreatedAt = now
	batch.Signal.UpdatedAt = now

	if err := s.manager.Store().CreateSignal(batch.Signal); err != nil {
		return fmt.Errorf("persist signal for %s %s: %w", batch.Pair, batch.Timeframe, err)
	}

	s.log.WithFields(map[string]any{
		"pair":      batch.Pair,
		"timeframe": batch.Timeframe,
		"direction": batch.Signal.Direction,
		"score":     batch.Signal.Score,
	}).Debug("signal stored")

	return nil
}
