package plugin

import (
	"fmt"
	"strings"

	"github.com/raykavin/bitwatcher/pkg/logger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CycleError reports a dependency cycle with the full path that closes
// it, first node repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// BuildOrder sorts the components of deps so that every component comes
// after everything it depends on. Ties are broken by position in order,
// the registration sequence, which makes the result deterministic.
//
// Dependencies on unregistered names are ignored for ordering purposes.
// Components trapped in a cycle cannot be sorted; they are appended at
// the end in registration order and logged, leaving the failure to the
// initialization of the components themselves.
func BuildOrder(deps map[string][]string, order []string, log logger.Logger) []string {
	pending := make(map[string]int, len(order))
	for _, name := range order {
		count := 0
		for _, dep := range deps[name] {
			if _, known := deps[dep]; known {
				count++
			}
		}
		pending[name] = count
	}

	sorted := make([]string, 0, len(order))
	placed := make(map[string]bool, len(order))

	for len(sorted) < len(order) {
		progress := false
		for _, name := range order {
			if placed[name] || pending[name] != 0 {
				continue
			}
			sorted = append(sorted, name)
			placed[name] = true
			progress = true

			for _, other := range order {
				if placed[other] {
					continue
				}
				if slices.Contains(deps[other], name) {
					pending[other]--
				}
			}
		}
		if !progress {
			break
		}
	}

	if len(sorted) < len(order) {
		for _, name := range order {
			if !placed[name] {
				log.Errorf("component %q is part of a dependency cycle, appended out of order", name)
				sorted = append(sorted, name)
			}
		}
	}

	return sorted
}

// FindCycle searches deps for a dependency cycle, visiting roots in the
// given order for a deterministic answer. It returns the cycle path with
// the entry node repeated at the end, or nil when the graph is acyclic.
// A nil roots slice falls back to the sorted key set.
func FindCycle(deps map[string][]string, roots []string) []string {
	if roots == nil {
		roots = maps.Keys(deps)
		slices.Sort(roots)
	}

	visited := make(map[string]bool, len(deps))
	onStack := make(map[string]bool, len(deps))
	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		visited[name] = true
		onStack[name] = true
		stack = append(stack, name)

		for _, dep := range deps[name] {
			if _, known := deps[dep]; !known {
				continue
			}
			if onStack[dep] {
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			}
			if !visited[dep] && visit(dep) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		onStack[name] = false
		return false
	}

	for _, root := range roots {
		if !visited[root] && visit(root) {
			return cycle
		}
	}
	return nil
}

// IsAcyclic reports whether deps contains no dependency cycle.
func IsAcyclic(deps map[string][]string) bool {
	return FindCycle(deps, nil) == nil
}
