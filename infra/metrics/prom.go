package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/fleetops/core/metrics"
)

// PromSink records admission activity in Prometheus metrics.
type PromSink struct {
	decisions   *prometheus.CounterVec
	commitFails prometheus.Counter
	hours       prometheus.Histogram
	latency     prometheus.Histogram
	refuelL     *prometheus.CounterVec
	refuelCost  prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewPromSink registers admission metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_decisions_total",
			Help: "Admission evaluations by outcome and reason",
		}, []string{"outcome", "reason"}),
		commitFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admission_commit_failures_total",
			Help: "Admitted drafts whose mission could not be stored",
		}),
		hours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admission_estimated_hours",
			Help:    "Estimated duty hours of evaluated missions",
			Buckets: []float64{2, 4, 8, 12, 24, 36, 48, 72},
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admission_evaluation_seconds",
			Help:    "Time spent evaluating an admission",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		refuelL: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_refuel_liters_total",
			Help: "Liters added to trucks by refuel kind",
		}, []string{"kind"}),
		refuelCost: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuel_refuel_cost_total",
			Help: "Cost of the fuel added to trucks",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mission_transitions_total",
			Help: "Mission lifecycle transitions by target status",
		}, []string{"status"}),
	}
	var err error
	if s.decisions, err = register(reg, s.decisions); err != nil {
		return nil, err
	}
	if s.commitFails, err = register(reg, s.commitFails); err != nil {
		return nil, err
	}
	if s.hours, err = register(reg, s.hours); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.refuelL, err = register(reg, s.refuelL); err != nil {
		return nil, err
	}
	if s.refuelCost, err = register(reg, s.refuelCost); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, s.transitions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDecision counts the evaluation and observes its estimate and latency.
func (s *PromSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	reason := ev.Reason
	if reason == "" {
		reason = "none"
	}
	s.decisions.WithLabelValues(ev.Outcome, reason).Inc()
	if ev.CommitFailed {
		s.commitFails.Inc()
	}
	if ev.EstimatedHours > 0 {
		s.hours.Observe(ev.EstimatedHours)
	}
	if ev.Duration > 0 {
		s.latency.Observe(ev.Duration.Seconds())
	}
	return nil
}

// RecordRefuel adds the refueled liters and cost.
func (s *PromSink) RecordRefuel(ev coremetrics.RefuelEvent) error {
	s.refuelL.WithLabelValues(ev.Kind).Add(ev.Liters)
	if ev.Cost > 0 {
		s.refuelCost.Add(ev.Cost)
	}
	return nil
}

// RecordMissionTransition counts a lifecycle move.
func (s *PromSink) RecordMissionTransition(_ string, status string) error {
	s.transitions.WithLabelValues(status).Inc()
	return nil
}
