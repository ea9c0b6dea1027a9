package events

import (
	"time"

	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/model"
)

// Event is implemented by every event published on the bus.
type Event interface {
	OccurredAt() time.Time
}

// DecisionEvent is published after each admission evaluation. When the
// draft was admitted for creation, MissionID or CommitErr tells whether the
// mission was actually stored.
type DecisionEvent struct {
	Draft     model.MissionDraft
	Decision  admission.Decision
	MissionID string
	CommitErr error
	Duration  time.Duration
	Time      time.Time
}

func (e DecisionEvent) OccurredAt() time.Time { return e.Time }

// RefuelEvent is published when fuel is added to a truck. Kind is the
// refuel option, or "manual" for refuels outside admission.
type RefuelEvent struct {
	TruckID   string
	MissionID string
	Kind      string
	Liters    float64
	Cost      float64
	Time      time.Time
}

func (e RefuelEvent) OccurredAt() time.Time { return e.Time }

// MissionEvent is published when a mission is created (From is empty) or
// moves to another status.
type MissionEvent struct {
	Mission model.Mission
	From    model.MissionStatus
	To      model.MissionStatus
	Time    time.Time
}

func (e MissionEvent) OccurredAt() time.Time { return e.Time }
