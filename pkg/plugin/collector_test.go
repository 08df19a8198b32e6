package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector_CollectDeclaredDependencies(t *testing.T) {
	reg := NewRegistry(newTestLog())
	require.True(t, reg.Register(describe("connection", nil, nil, nil, nil)))
	require.True(t, reg.Register(describe("market_data", []string{"connection"}, nil, nil, nil)))
	require.True(t, reg.Register(describe("signals", []string{"market_data", "oscillators"}, nil, nil, nil)))

	deps := NewCollector(newTestLog()).Collect(reg)

	require.Equal(t, map[string][]string{
		"connection":  {},
		"market_data": {"connection"},
		"signals":     {"market_data", "oscillators"},
	}, deps)
}

func TestCollector_PanickingDeclarationMeansNoDependencies(t *testing.T) {
	reg := NewRegistry(newTestLog())

	broken := describe("volatility", nil, nil, nil, nil)
	broken.DependsOn = func() []string { panic("bad declaration") }
	require.True(t, reg.Register(broken))
	require.True(t, reg.Register(describe("volume", []string{"market_data"}, nil, nil, nil)))

	deps := NewCollector(newTestLog()).Collect(reg)

	require.Equal(t, []string{}, deps["volatility"])
	require.Equal(t, []string{"market_data"}, deps["volume"])
}

func TestCollector_SyncWritesOnlyOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependencies.json")
	collector := NewCollector(newTestLog())

	deps := map[string][]string{
		"connection":  {},
		"market_data": {"connection"},
	}

	changed, err := collector.Sync(path, deps)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = collector.Sync(path, deps)
	require.NoError(t, err)
	require.False(t, changed)

	deps["signals"] = []string{"market_data"}
	changed, err = collector.Sync(path, deps)
	require.NoError(t, err)
	require.True(t, changed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var stored map[string][]string
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Equal(t, deps, stored)
}
