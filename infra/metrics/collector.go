package metrics

import (
	"context"

	"github.com/kilianp07/fleetops/core/events"
	coremetrics "github.com/kilianp07/fleetops/core/metrics"
	"github.com/kilianp07/fleetops/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// events. The subscription is ready when the function returns; recording
// stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Event], sink coremetrics.AdmissionSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, ev)
			}
		}
	}()
}

func record(sink coremetrics.AdmissionSink, ev events.Event) {
	switch e := ev.(type) {
	case events.DecisionEvent:
		_ = sink.RecordDecision(coremetrics.DecisionEvent{
			Outcome:        string(e.Decision.Outcome),
			Reason:         string(e.Decision.Reason),
			Tag:            e.Decision.Tag(),
			DriverID:       e.Draft.DriverID,
			TruckID:        e.Draft.TruckID,
			EstimatedHours: e.Decision.EstimatedHours,
			CommitFailed:   e.CommitErr != nil,
			Duration:       e.Duration,
			Time:           e.Time,
		})
	case events.RefuelEvent:
		_ = sink.RecordRefuel(coremetrics.RefuelEvent{
			TruckID: e.TruckID,
			Kind:    e.Kind,
			Liters:  e.Liters,
			Cost:    e.Cost,
			Time:    e.Time,
		})
	case events.MissionEvent:
		if r, ok := sink.(coremetrics.MissionTransitionRecorder); ok {
			_ = r.RecordMissionTransition(e.Mission.ID, string(e.To))
		}
	}
}
