package plugin

import (
	"context"
	"errors"
	"io"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/logger"
	logrusadapter "github.com/raykavin/bitwatcher/pkg/logger/logrus"
	"github.com/sirupsen/logrus"
)

func newTestLog() logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrusadapter.NewAdapter(l)
}

// journal records lifecycle events so tests can assert ordering
type journal struct {
	entries []string
}

func (j *journal) add(entry string) { j.entries = append(j.entries, entry) }

type fakePlugin struct {
	Base
	journal *journal

	failInit      bool
	failExec      bool
	panicFinalize bool

	initCalls  int
	execCalls  int
	finalCalls int
}

func (f *fakePlugin) Initialize(settings *core.Settings) error {
	if f.Initialized() {
		return nil
	}
	f.initCalls++
	if f.journal != nil {
		f.journal.add("init:" + f.Meta.Name)
	}
	if f.failInit {
		return errors.New("init refused")
	}
	f.Ready(settings)
	return nil
}

func (f *fakePlugin) Execute(ctx context.Context, batch *core.Batch) error {
	f.execCalls++
	if f.journal != nil {
		f.journal.add("exec:" + f.Meta.Name)
	}
	if f.failExec {
		return errors.New("exec refused")
	}
	return nil
}

func (f *fakePlugin) Finalize() {
	f.finalCalls++
	if f.journal != nil {
		f.journal.add("final:" + f.Meta.Name)
	}
	f.Reset()
	if f.panicFinalize {
		panic("finalize blew up")
	}
}

// describe builds a descriptor whose factory returns a fresh fakePlugin
// and records the instance under instances[name].
func describe(name string, dependsOn []string, j *journal, instances map[string]*fakePlugin, tweak func(*fakePlugin)) *Descriptor {
	return &Descriptor{
		Metadata: Metadata{Name: name, Category: CategoryPlugin, Tags: []string{"analysis"}},
		DependsOn: func() []string {
			return dependsOn
		},
		New: func(deps Deps) (Plugin, error) {
			f := &fakePlugin{Base: Base{Meta: Metadata{Name: name, Category: CategoryPlugin, Tags: []string{"analysis"}}}, journal: j}
			if tweak != nil {
				tweak(f)
			}
			if instances != nil {
				instances[name] = f
			}
			return f, nil
		},
	}
}
