package plugin

import (
	"context"
	"fmt"

	"github.com/StudioSol/set"
	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
)

// Dispatcher runs execution phases over the live components. A phase is
// named by a tag; every live component carrying the tag is executed in
// registration order against a shared batch.
type Dispatcher struct {
	orchestrator *Orchestrator
	log          logger.Logger
}

// NewDispatcher creates a dispatcher over the orchestrator's live set.
func NewDispatcher(orchestrator *Orchestrator, log logger.Logger) *Dispatcher {
	return &Dispatcher{orchestrator: orchestrator, log: log}
}

// RunTagged executes every live component tagged with tag, in the order
// the components were registered. A failing component is logged and the
// phase continues with the rest; the result is true only when every
// selected component succeeded. A tag selecting no component succeeds.
func (d *Dispatcher) RunTagged(ctx context.Context, tag string, batch *core.Batch) bool {
	ok := true
	for _, name := range d.orchestrator.Registry().Names() {
		inst, live := d.orchestrator.Component(name)
		if !live {
			continue
		}

		tags := set.NewLinkedHashSetString(inst.Metadata().Tags...)
		if !tags.InArray(tag) {
			continue
		}

		if err := d.safeExecute(ctx, name, inst, batch); err != nil {
			d.log.WithError(err).WithFields(map[string]any{
				"component": name,
				"tag":       tag,
			}).Error("component execution failed")
			ok = false
		}
	}
	return ok
}

func (d *Dispatcher) safeExecute(ctx context.Context, name string, inst Plugin, batch *core.Batch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("execute of %q panicked: %v", name, r)
		}
	}()

	return inst.Execute(ctx, batch)
}
