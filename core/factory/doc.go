// Package factory instantiates pluggable modules from configuration.
//
// A module is described by a type name and a map of raw settings. Factories
// decode the settings with Decode and return the concrete implementation:
//
//	reg := factory.NewRegistry[metrics.AdmissionSink]()
//	_ = reg.Register("nop", func(map[string]any) (metrics.AdmissionSink, error) {
//	    return metrics.NopSink{}, nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "nop"})
package factory
