package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raykavin/bitwatcher/pkg/logger"
	"golang.org/x/exp/slices"
)

// Collector walks the registry and builds the dependency map consumed
// by the graph functions. A descriptor whose DependsOn panics is logged
// and treated as having no dependencies, so one broken declaration does
// not take the whole startup down.
type Collector struct {
	log logger.Logger
}

// NewCollector creates a dependency collector.
func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

// Collect returns the dependency names declared by every registered
// component, keyed by component name. Every component appears in the
// result, including the ones with no dependencies.
func (c *Collector) Collect(registry *Registry) map[string][]string {
	deps := make(map[string][]string, registry.Len())
	for _, name := range registry.Names() {
		desc, ok := registry.Get(name)
		if !ok {
			continue
		}
		declared := c.safeDependsOn(name, desc)
		if declared == nil {
			declared = []string{}
		}
		deps[name] = declared
	}
	return deps
}

func (c *Collector) safeDependsOn(name string, desc *Descriptor) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("component %q panicked declaring dependencies: %v", name, r)
			out = nil
		}
	}()

	if desc.DependsOn == nil {
		return nil
	}
	return slices.Clone(desc.DependsOn())
}

// Sync persists the dependency map to path as indented JSON. The file is
// only rewritten when its content would change, so the snapshot's mtime
// doubles as a drift marker. It reports whether a write happened.
func (c *Collector) Sync(path string, deps map[string][]string) (bool, error) {
	next, err := json.MarshalIndent(deps, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode dependency snapshot: %w", err)
	}
	next = append(next, '\n')

	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, next) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read dependency snapshot: %w", err)
	}

	if err := os.WriteFile(path, next, 0o644); err != nil {
		return false, fmt.Errorf("write dependency snapshot: %w", err)
	}

	c.log.Infof("dependency snapshot updated: %s", path)
	return true, nil
}
