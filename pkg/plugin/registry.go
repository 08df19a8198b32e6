package plugin

import (
	"sync"

	"github.com/raykavin/bitwatcher/pkg/logger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry keeps the component descriptors in registration order. The
// first registration of a name wins; later ones are rejected with a
// warning so a misconfigured build cannot silently swap a component.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	order       []string
	log         logger.Logger
}

// NewRegistry creates an empty component registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
		log:         log,
	}
}

// Register adds a descriptor under its metadata name. It returns false
// when the name is empty, the factory is missing, or the name is taken.
func (r *Registry) Register(desc *Descriptor) bool {
	if desc == nil || desc.Metadata.Name == "" || desc.New == nil {
		r.log.Error("rejected component registration without name or factory")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := desc.Metadata.Name
	if _, exists := r.descriptors[name]; exists {
		r.log.Warnf("component %q already registered, keeping the first one", name)
		return false
	}

	r.descriptors[name] = desc
	r.order = append(r.order, name)
	return true
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descriptors[name]
	return desc, ok
}

// Names returns the component names in registration order. The slice is
// a copy, callers may reorder it freely.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// All returns a snapshot of the registered descriptors.
func (r *Registry) All() map[string]*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.descriptors)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
