package metrics

import "time"

// DecisionEvent summarizes one admission evaluation.
type DecisionEvent struct {
	Outcome        string
	Reason         string
	Tag            string
	DriverID       string
	TruckID        string
	EstimatedHours float64
	// CommitFailed marks an admission whose mission could not be stored.
	CommitFailed bool
	Duration     time.Duration
	Time         time.Time
}

// RefuelEvent records fuel added to a truck.
type RefuelEvent struct {
	TruckID string
	Kind    string // topToNeed, topToFull or manual
	Liters  float64
	Cost    float64
	Time    time.Time
}

// AdmissionSink records admission activity for observability purposes.
type AdmissionSink interface {
	RecordDecision(ev DecisionEvent) error
	RecordRefuel(ev RefuelEvent) error
}

// MissionTransitionRecorder is implemented by sinks that track the mission
// lifecycle.
type MissionTransitionRecorder interface {
	RecordMissionTransition(missionID, status string) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordDecision(DecisionEvent) error           { return nil }
func (NopSink) RecordRefuel(RefuelEvent) error               { return nil }
func (NopSink) RecordMissionTransition(string, string) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []AdmissionSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...AdmissionSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDecision forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordDecision(ev DecisionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecision(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRefuel forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordRefuel(ev RefuelEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRefuel(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordMissionTransition forwards to the sinks that support it.
func (m *MultiSink) RecordMissionTransition(missionID, status string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(MissionTransitionRecorder); ok {
			if err := rec.RecordMissionTransition(missionID, status); err != nil {
				return err
			}
		}
	}
	return nil
}
