package plugins

import (
	"github.com/raykavin/bitwatcher/pkg/logger"
	"github.com/raykavin/bitwatcher/pkg/plugin"
)

// RegisterAll registers the full component set. Registration order is
// the tie-break for execution order, so the data components come first
// and the reporting components last.
func RegisterAll(registry *plugin.Registry, log logger.Logger) {
	descriptors := []*plugin.Descriptor{
		ConnectionDescriptor(log),
		StorageManagerDescriptor(log),
		MarketDataDescriptor(log),
		ValidatorDescriptor(log),
		PatternsDescriptor(log),
		AveragesDescriptor(log),
		TrendDescriptor(log),
		OscillatorsDescriptor(log),
		VolatilityDescriptor(log),
		VolumeDescriptor(log),
		PriceActionDescriptor(log),
		AnomalyDescriptor(log),
		RiskDescriptor(log),
		LeverageDescriptor(log),
		SignalsDescriptor(log),
		SignalStoreDescriptor(log),
		NotifierDescriptor(log),
	}

	for _, desc := range descriptors {
		registry.Register(desc)
	}
}
