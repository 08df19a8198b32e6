package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildOrder_DependenciesComeFirst(t *testing.T) {
	deps := map[string][]string{
		"connection":  {},
		"market_data": {"connection"},
		"oscillators": {"market_data"},
		"signals":     {"oscillators", "market_data"},
	}
	order := []string{"signals", "oscillators", "market_data", "connection"}

	sorted := BuildOrder(deps, order, newTestLog())

	require.Equal(t, []string{"connection", "market_data", "oscillators", "signals"}, sorted)
}

func TestBuildOrder_TiesFollowRegistrationOrder(t *testing.T) {
	deps := map[string][]string{
		"validator":   {},
		"connection":  {},
		"market_data": {"connection"},
		"patterns":    {"market_data", "validator"},
		"averages":    {"market_data"},
	}
	order := []string{"validator", "connection", "market_data", "patterns", "averages"}

	sorted := BuildOrder(deps, order, newTestLog())

	require.Equal(t, order, sorted)
}

func TestBuildOrder_UnknownDependenciesAreIgnored(t *testing.T) {
	deps := map[string][]string{
		"signals": {"never_registered"},
	}

	sorted := BuildOrder(deps, []string{"signals"}, newTestLog())

	require.Equal(t, []string{"signals"}, sorted)
}

func TestBuildOrder_CyclicComponentsAppendedLast(t *testing.T) {
	deps := map[string][]string{
		"connection":  {},
		"risk":        {"leverage"},
		"leverage":    {"risk"},
		"market_data": {"connection"},
	}
	order := []string{"risk", "leverage", "connection", "market_data"}

	sorted := BuildOrder(deps, order, newTestLog())

	require.Equal(t, []string{"connection", "market_data", "risk", "leverage"}, sorted)
}

func TestFindCycle_ReturnsFullPath(t *testing.T) {
	deps := map[string][]string{
		"connection":  {"signals"},
		"signals":     {"oscillators"},
		"oscillators": {"market_data"},
		"market_data": {"connection"},
	}
	roots := []string{"connection", "signals", "oscillators", "market_data"}

	cycle := FindCycle(deps, roots)

	require.Equal(t, []string{"connection", "signals", "oscillators", "market_data", "connection"}, cycle)

	err := &CycleError{Path: cycle}
	require.EqualError(t, err, "dependency cycle: connection -> signals -> oscillators -> market_data -> connection")
}

func TestFindCycle_SelfReference(t *testing.T) {
	deps := map[string][]string{
		"signals": {"signals"},
	}

	require.Equal(t, []string{"signals", "signals"}, FindCycle(deps, nil))
}

func TestIsAcyclic(t *testing.T) {
	require.True(t, IsAcyclic(map[string][]string{
		"connection":  {},
		"market_data": {"connection"},
	}))

	require.False(t, IsAcyclic(map[string][]string{
		"risk":     {"leverage"},
		"leverage": {"risk"},
	}))
}
