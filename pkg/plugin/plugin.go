// Package plugin implements the component system of the analysis bot:
// a registry of component descriptors, dependency collection and graph
// ordering, lifecycle orchestration with constructor injection, and
// tag-based execution dispatch.
package plugin

import (
	"context"

	"github.com/raykavin/bitwatcher/pkg/core"
)

// Category separates ordinary analysis components from managers, which
// coordinate other components and may carry schema metadata.
type Category string

const (
	CategoryPlugin  Category = "plugin"
	CategoryManager Category = "manager"
)

// Metadata identifies a component and drives ordering and dispatch.
type Metadata struct {
	Name     string
	Category Category
	Tags     []string
	Priority int
}

// Deps holds the resolved dependency instances of a component, keyed by
// component name, exactly as declared by the descriptor's DependsOn.
type Deps map[string]Plugin

// Get returns the named dependency or nil when absent.
func (d Deps) Get(name string) Plugin { return d[name] }

// Factory builds a component instance from its resolved dependencies.
// It must not perform I/O; side effects belong in Initialize.
type Factory func(deps Deps) (Plugin, error)

// TableSpec describes one table a component owns. DependsOn names other
// tables that must exist first, forming a second graph the storage
// manager checks for cycles.
type TableSpec struct {
	Columns   map[string]string
	DependsOn []string
}

// Descriptor is the static registration record of a component. DependsOn
// must be pure: same answer every call, no side effects. A nil DependsOn
// means the component stands alone.
type Descriptor struct {
	Metadata  Metadata
	DependsOn func() []string
	Tables    map[string]TableSpec
	New       Factory
}

// Plugin is the lifecycle contract every component implements.
//
// Initialize is idempotent: a second call on a live instance returns nil
// without repeating side effects. Execute runs one analysis step against
// the shared batch. Finalize releases resources and must tolerate being
// called on a half-initialized instance.
type Plugin interface {
	Metadata() Metadata
	Initialize(settings *core.Settings) error
	Initialized() bool
	Execute(ctx context.Context, batch *core.Batch) error
	Finalize()
}

// Base carries the state shared by every component implementation.
// Components embed it and call Ready/Reset from their own lifecycle
// methods to keep Initialize idempotent.
type Base struct {
	Meta     Metadata
	Settings *core.Settings

	ready bool
}

// Metadata implements Plugin.
func (b *Base) Metadata() Metadata { return b.Meta }

// Initialized implements Plugin.
func (b *Base) Initialized() bool { return b.ready }

// Ready records the settings and marks the component live.
func (b *Base) Ready(settings *core.Settings) {
	b.Settings = settings
	b.ready = true
}

// Reset drops the live state so a later Initialize starts over.
func (b *Base) Reset() {
	b.Settings = nil
	b.ready = false
}

// Initialize implements Plugin for components without startup work.
func (b *Base) Initialize(settings *core.Settings) error {
	if b.ready {
		return nil
	}
	b.Ready(settings)
	return nil
}

// Execute implements Plugin as a no-op for manager components.
func (b *Base) Execute(ctx context.Context, batch *core.Batch) error { return nil }

// Finalize implements Plugin.
func (b *Base) Finalize() { b.Reset() }
