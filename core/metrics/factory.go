// Package metrics defines the admission metrics sinks. Implementations are
// registered by name and built from configuration with NewSink; several
// configured sinks are combined into a MultiSink.
package metrics

import "github.com/kilianp07/fleetops/core/factory"

var sinkRegistry = factory.NewRegistry[AdmissionSink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[AdmissionSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates an AdmissionSink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (AdmissionSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]AdmissionSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
