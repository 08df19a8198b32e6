package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_FirstRegistrationWins(t *testing.T) {
	reg := NewRegistry(newTestLog())

	first := describe("connection", nil, nil, nil, nil)
	second := describe("connection", nil, nil, nil, nil)

	require.True(t, reg.Register(first))
	require.False(t, reg.Register(second))

	got, ok := reg.Get("connection")
	require.True(t, ok)
	require.Same(t, first, got)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_RejectsIncompleteDescriptors(t *testing.T) {
	reg := NewRegistry(newTestLog())

	require.False(t, reg.Register(nil))
	require.False(t, reg.Register(&Descriptor{Metadata: Metadata{Name: "nameless"}}))

	noName := describe("", nil, nil, nil, nil)
	require.False(t, reg.Register(noName))
	require.Equal(t, 0, reg.Len())
}

func TestRegistry_NamesKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry(newTestLog())

	for _, name := range []string{"connection", "market_data", "oscillators", "signals"} {
		require.True(t, reg.Register(describe(name, nil, nil, nil, nil)))
	}

	require.Equal(t, []string{"connection", "market_data", "oscillators", "signals"}, reg.Names())

	// mutating the returned slice must not touch the registry
	names := reg.Names()
	names[0] = "swapped"
	require.Equal(t, "connection", reg.Names()[0])
}
