package plugin

import (
	"fmt"
	"sync"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Orchestrator drives the component lifecycle: it collects the declared
// dependencies, validates the graph, builds every component with its
// dependencies injected, and tears everything down in reverse order.
//
// Each component is built at most once per run; every consumer receives
// the same instance.
type Orchestrator struct {
	registry  *Registry
	collector *Collector
	log       logger.Logger

	mu        sync.Mutex
	settings  *core.Settings
	instances map[string]Plugin
	built     []string
	running   bool
}

// NewOrchestrator creates an orchestrator over the given registry.
func NewOrchestrator(registry *Registry, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		collector: NewCollector(log),
		log:       log,
		instances: make(map[string]Plugin),
	}
}

// Registry exposes the component registry backing this orchestrator.
func (o *Orchestrator) Registry() *Registry { return o.registry }

// Running reports whether a successful InitializeAll is in effect.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// InitializeAll starts every registered component in dependency order.
// A dependency cycle or invalid table metadata aborts the startup before
// any component is touched. Individual component failures are logged and
// isolated; the remaining components still start. It returns true only
// when every component came up.
func (o *Orchestrator) InitializeAll(settings *core.Settings) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.settings = settings

	deps := o.collector.Collect(o.registry)

	if settings != nil && settings.DependencyFile != "" {
		if _, err := o.collector.Sync(settings.DependencyFile, deps); err != nil {
			o.log.WithError(err).Warn("could not persist dependency snapshot")
		}
	}

	if cycle := FindCycle(deps, o.registry.Names()); cycle != nil {
		o.log.Error((&CycleError{Path: cycle}).Error())
		return false
	}

	if !o.validateTables() {
		return false
	}

	ok := true
	for _, name := range BuildOrder(deps, o.registry.Names(), o.log) {
		if _, err := o.resolve(name, deps, nil); err != nil {
			o.log.WithError(err).Errorf("component %q failed to start", name)
			ok = false
		}
	}

	o.running = ok
	return ok
}

// Component returns the live instance built for name, if any.
func (o *Orchestrator) Component(name string) (Plugin, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	inst, ok := o.instances[name]
	return inst, ok
}

// Live returns the names of the successfully built components in build
// order.
func (o *Orchestrator) Live() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return slices.Clone(o.built)
}

// FinalizeAll tears the components down in reverse build order. Panics
// and half-initialized instances are tolerated: every component gets its
// Finalize call regardless of what the previous one did. The instance
// cache is cleared so a later InitializeAll starts from scratch.
func (o *Orchestrator) FinalizeAll() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := len(o.built) - 1; i >= 0; i-- {
		name := o.built[i]
		inst, ok := o.instances[name]
		if !ok {
			continue
		}
		o.safeFinalize(name, inst)
	}

	maps.Clear(o.instances)
	o.built = o.built[:0]
	o.running = false
}

// resolve returns the instance for name, building its dependency closure
// first. stack tracks the in-flight resolution path for cycle reports.
func (o *Orchestrator) resolve(name string, deps map[string][]string, stack []string) (Plugin, error) {
	if inst, ok := o.instances[name]; ok {
		return inst, nil
	}

	if slices.Contains(stack, name) {
		start := slices.Index(stack, name)
		return nil, &CycleError{Path: append(slices.Clone(stack[start:]), name)}
	}

	desc, ok := o.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("component %q is not registered", name)
	}

	resolved := make(Deps, len(deps[name]))
	for _, dep := range deps[name] {
		inst, err := o.resolve(dep, deps, append(stack, name))
		if err != nil {
			return nil, fmt.Errorf("dependency %q of %q: %w", dep, name, err)
		}
		resolved[dep] = inst
	}

	inst, err := o.safeBuild(name, desc, resolved)
	if err != nil {
		return nil, err
	}

	if err := o.safeInitialize(name, inst); err != nil {
		// keep the lifecycle symmetric for the resources the component
		// may have grabbed before failing
		o.safeFinalize(name, inst)
		return nil, err
	}

	o.instances[name] = inst
	o.built = append(o.built, name)
	o.log.Infof("component ready: %s", name)
	return inst, nil
}

func (o *Orchestrator) safeBuild(name string, desc *Descriptor, resolved Deps) (inst Plugin, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst = nil
			err = fmt.Errorf("constructor of %q panicked: %v", name, r)
		}
	}()

	inst, err = desc.New(resolved)
	if err != nil {
		return nil, fmt.Errorf("construct %q: %w", name, err)
	}
	if inst == nil {
		return nil, fmt.Errorf("constructor of %q returned no instance", name)
	}
	return inst, nil
}

func (o *Orchestrator) safeInitialize(name string, inst Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("initialize of %q panicked: %v", name, r)
		}
	}()

	if err := inst.Initialize(o.settings); err != nil {
		return fmt.Errorf("initialize %q: %w", name, err)
	}
	return nil
}

func (o *Orchestrator) safeFinalize(name string, inst Plugin) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("finalize of %q panicked: %v", name, r)
		}
	}()

	inst.Finalize()
}

// validateTables checks the schema metadata declared by the descriptors:
// every table needs a name and at least one typed column, and the table
// dependency graph must be acyclic.
func (o *Orchestrator) validateTables() bool {
	tables := make(map[string][]string)
	ok := true

	for _, name := range o.registry.Names() {
		desc, found := o.registry.Get(name)
		if !found || desc.Tables == nil {
			continue
		}

		for table, spec := range desc.Tables {
			if table == "" {
				o.log.Errorf("component %q declares a table without a name", name)
				ok = false
				continue
			}
			if len(spec.Columns) == 0 {
				o.log.Errorf("component %q declares table %q without columns", name, table)
				ok = false
			}
			for column, kind := range spec.Columns {
				if column == "" || kind == "" {
					o.log.Errorf("component %q declares an untyped column on table %q", name, table)
					ok = false
				}
			}
			tables[table] = slices.Clone(spec.DependsOn)
		}
	}

	if cycle := FindCycle(tables, nil); cycle != nil {
		o.log.Errorf("table graph: %s", (&CycleError{Path: cycle}).Error())
		ok = false
	}

	return ok
}
