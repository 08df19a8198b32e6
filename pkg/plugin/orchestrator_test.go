package plugin

import (
	"path/filepath"
	"testing"

	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_InitializeAllInDependencyOrder(t *testing.T) {
	reg := NewRegistry(newTestLog())
	j := &journal{}
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("connection", nil, j, instances, nil)))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, j, instances, nil)))
	require.True(t, reg.Register(describe("oscillators", []string{"market_data"}, j, instances, nil)))
	require.True(t, reg.Register(describe("signals", []string{"oscillators", "market_data"}, j, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.True(t, orch.InitializeAll(&core.Settings{}))

	require.Equal(t, []string{
		"init:connection",
		"init:market_data",
		"init:oscillators",
		"init:signals",
	}, j.entries)
	require.Equal(t, []string{"connection", "market_data", "oscillators", "signals"}, orch.Live())
	require.True(t, orch.Running())
}

func TestOrchestrator_SharedDependencyIsOneInstance(t *testing.T) {
	reg := NewRegistry(newTestLog())

	built := 0
	conn := describe("connection", nil, nil, nil, nil)
	factory := conn.New
	conn.New = func(deps Deps) (Plugin, error) {
		built++
		return factory(deps)
	}

	require.True(t, reg.Register(conn))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, nil, nil, nil)))
	require.True(t, reg.Register(describe("validator", []string{"connection"}, nil, nil, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.True(t, orch.InitializeAll(&core.Settings{}))
	require.Equal(t, 1, built)
}

func TestOrchestrator_InitializeAllIsIdempotent(t *testing.T) {
	reg := NewRegistry(newTestLog())
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("connection", nil, nil, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.True(t, orch.InitializeAll(&core.Settings{}))
	require.True(t, orch.InitializeAll(&core.Settings{}))

	require.Equal(t, 1, instances["connection"].initCalls)
	require.Equal(t, []string{"connection"}, orch.Live())
}

func TestOrchestrator_FailedComponentDoesNotStopTheOthers(t *testing.T) {
	reg := NewRegistry(newTestLog())
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("connection", nil, nil, instances, nil)))
	require.True(t, reg.Register(describe("validator", nil, nil, instances, func(f *fakePlugin) {
		f.failInit = true
	})))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, nil, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))

	require.Equal(t, []string{"connection", "market_data"}, orch.Live())
	_, live := orch.Component("validator")
	require.False(t, live)
	require.False(t, orch.Running())
}

func TestOrchestrator_BrokenDependencyPoisonsItsDependents(t *testing.T) {
	reg := NewRegistry(newTestLog())
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("connection", nil, nil, instances, func(f *fakePlugin) {
		f.failInit = true
	})))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, nil, instances, nil)))
	require.True(t, reg.Register(describe("validator", nil, nil, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))

	require.Equal(t, []string{"validator"}, orch.Live())
}

func TestOrchestrator_CycleAbortsBeforeAnyBuild(t *testing.T) {
	reg := NewRegistry(newTestLog())
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("risk", []string{"leverage"}, nil, instances, nil)))
	require.True(t, reg.Register(describe("leverage", []string{"risk"}, nil, instances, nil)))
	require.True(t, reg.Register(describe("connection", nil, nil, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))

	require.Empty(t, instances)
	require.Empty(t, orch.Live())
}

func TestOrchestrator_PanickingConstructorIsIsolated(t *testing.T) {
	reg := NewRegistry(newTestLog())

	exploding := describe("patterns", nil, nil, nil, nil)
	exploding.New = func(deps Deps) (Plugin, error) { panic("no talib today") }

	require.True(t, reg.Register(exploding))
	require.True(t, reg.Register(describe("connection", nil, nil, nil, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))

	_, live := orch.Component("connection")
	require.True(t, live)
}

func TestOrchestrator_FinalizeAllReversesBuildOrder(t *testing.T) {
	reg := NewRegistry(newTestLog())
	j := &journal{}
	instances := map[string]*fakePlugin{}

	require.True(t, reg.Register(describe("connection", nil, j, instances, nil)))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, j, instances, func(f *fakePlugin) {
		f.panicFinalize = true
	})))
	require.True(t, reg.Register(describe("signals", []string{"market_data"}, j, instances, nil)))

	orch := NewOrchestrator(reg, newTestLog())
	require.True(t, orch.InitializeAll(&core.Settings{}))

	j.entries = nil
	orch.FinalizeAll()

	require.Equal(t, []string{
		"final:signals",
		"final:market_data",
		"final:connection",
	}, j.entries)
	require.Empty(t, orch.Live())
	require.False(t, orch.Running())

	// a fresh cycle builds fresh instances
	previous := instances["connection"]
	require.True(t, orch.InitializeAll(&core.Settings{}))
	require.NotSame(t, previous, instances["connection"])
}

func TestOrchestrator_TableMetadataIsValidated(t *testing.T) {
	reg := NewRegistry(newTestLog())

	bad := describe("storage_manager", nil, nil, nil, nil)
	bad.Metadata.Category = CategoryManager
	bad.Tables = map[string]TableSpec{
		"signals": {Columns: map[string]string{}},
	}

	require.True(t, reg.Register(bad))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))
}

func TestOrchestrator_TableDependencyCycleAborts(t *testing.T) {
	reg := NewRegistry(newTestLog())

	manager := describe("storage_manager", nil, nil, nil, nil)
	manager.Metadata.Category = CategoryManager
	manager.Tables = map[string]TableSpec{
		"signals":       {Columns: map[string]string{"id": "INTEGER"}, DependsOn: []string{"contributions"}},
		"contributions": {Columns: map[string]string{"id": "INTEGER"}, DependsOn: []string{"signals"}},
	}

	require.True(t, reg.Register(manager))

	orch := NewOrchestrator(reg, newTestLog())
	require.False(t, orch.InitializeAll(&core.Settings{}))
}

func TestOrchestrator_DependencySnapshotIsPersisted(t *testing.T) {
	reg := NewRegistry(newTestLog())
	require.True(t, reg.Register(describe("connection", nil, nil, nil, nil)))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, nil, nil, nil)))

	path := filepath.Join(t.TempDir(), "dependencies.json")
	orch := NewOrchestrator(reg, newTestLog())
	require.True(t, orch.InitializeAll(&core.Settings{DependencyFile: path}))

	require.FileExists(t, path)
}
