package metrics

import (
	"github.com/kilianp07/fleetops/core/factory"
	coremetrics "github.com/kilianp07/fleetops/core/metrics"
)

func init() {
	_ = coremetrics.RegisterSink("nop", newNopSink)
	_ = coremetrics.RegisterSink("prometheus", newPromSinkFromConfig)
}

func newNopSink(map[string]any) (coremetrics.AdmissionSink, error) {
	return coremetrics.NopSink{}, nil
}

// promSinkConfig is the "prometheus" sink section. Addr is accepted so a
// sink entry may carry the scrape address; metrics.prometheus_addr is what
// StartPromServer listens on.
type promSinkConfig struct {
	Addr string `json:"addr"`
}

func newPromSinkFromConfig(conf map[string]any) (coremetrics.AdmissionSink, error) {
	var c promSinkConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	return NewPromSink()
}
