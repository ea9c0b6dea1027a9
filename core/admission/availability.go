package admission

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/fleetops/core/model"
)

// Conflict is an existing mission overlapping the candidate window.
type Conflict struct {
	MissionID string              `json:"mission_id"`
	Status    model.MissionStatus `json:"status"`
	Window    model.TimeWindow    `json:"window"`
}

// AvailabilityReport is the outcome of a truck availability check.
type AvailabilityReport struct {
	TruckID   string           `json:"truck_id"`
	Plate     string           `json:"plate"`
	Available bool             `json:"available"`
	Window    model.TimeWindow `json:"window"`
	Conflicts []Conflict       `json:"conflicts,omitempty"`
}

// Message renders the report for an operator.
func (r AvailabilityReport) Message() string {
	if r.Available {
		return fmt.Sprintf("truck %s available", r.Plate)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "truck %s already booked:", r.Plate)
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, " mission %s %s -> %s;", c.MissionID,
			c.Window.Start.Format(time.RFC3339), c.Window.End.Format(time.RFC3339))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// CheckTruckAvailability lists the non-terminal missions of t whose window
// overlaps [pickup, dropoff). The truck is available when there is none.
func CheckTruckAvailability(t model.Truck, pickup, dropoff time.Time, missions []model.Mission) AvailabilityReport {
	window := model.TimeWindow{Start: pickup, End: dropoff}
	rep := AvailabilityReport{TruckID: t.ID, Plate: t.Plate, Window: window}
	for _, m := range missions {
		if m.Status.Terminal() || !t.Same(m.TruckID, m.TruckPlate) {
			continue
		}
		if window.Overlaps(m.Window()) {
			rep.Conflicts = append(rep.Conflicts, Conflict{MissionID: m.ID, Status: m.Status, Window: m.Window()})
		}
	}
	rep.Available = len(rep.Conflicts) == 0
	return rep
}
