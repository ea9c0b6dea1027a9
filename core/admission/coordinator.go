package admission

import (
	"fmt"
	"strings"

	"github.com/kilianp07/fleetops/core/model"
)

// Coordinator runs the admission pipeline: input, driver budget, truck
// availability, fuel. The first failing check ends the evaluation.
// A Coordinator holds no mutable state and is safe for concurrent use.
type Coordinator struct {
	cfg Config
}

// NewCoordinator creates a Coordinator. Unset configuration values take
// their defaults.
func NewCoordinator(cfg Config) *Coordinator {
	cfg.SetDefaults()
	return &Coordinator{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Coordinator) Config() Config { return c.cfg }

// Evaluate decides whether draft can be admitted against snap.
func (c *Coordinator) Evaluate(snap model.Snapshot, draft model.MissionDraft) Decision {
	dec := Decision{Stage: StageInput, DriverID: draft.DriverID, TruckID: draft.TruckID}
	driver, truck, in := c.validate(snap, draft)
	if in != nil {
		dec.Outcome = OutcomeRejected
		dec.Reason = ReasonInputInvalid
		dec.Input = in
		return dec
	}
	dec.EstimatedHours = EstimateWorkHours(draft.DistanceKm)

	dec.Stage = StageDriver
	budget := CheckDriverBudget(driver, dec.EstimatedHours, snap.Missions, c.cfg.budgetPolicy())
	if !budget.Available {
		dec.Outcome = OutcomeRejected
		dec.Reason = ReasonDriverBudgetExceeded
		dec.Driver = &budget
		return dec
	}

	dec.Stage = StageTruck
	avail := CheckTruckAvailability(truck, draft.PickupTime, draft.DropoffTime, snap.Missions)
	if !avail.Available {
		dec.Outcome = OutcomeRejected
		dec.Reason = ReasonTruckWindowConflict
		dec.Truck = &avail
		return dec
	}

	dec.Stage = StageFuel
	fuel := CheckFuel(truck, draft.DistanceKm, c.cfg.fuelPolicy())
	if !fuel.Enough {
		dec.Outcome = OutcomeNeedsRefuel
		dec.Reason = ReasonFuelInsufficient
		dec.Fuel = &fuel
		dec.RefuelOptions = append([]RefuelOption(nil), fuel.Options...)
		return dec
	}

	dec.Stage = StageDone
	dec.Outcome = OutcomeAdmitted
	dec.Driver = &budget
	dec.Truck = &avail
	dec.Fuel = &fuel
	return dec
}

// validate resolves the draft references and reports every malformed field.
func (c *Coordinator) validate(snap model.Snapshot, draft model.MissionDraft) (model.Driver, model.Truck, *InputReport) {
	var v []string
	var driver model.Driver
	var truck model.Truck
	if draft.DriverID == "" {
		v = append(v, "driver is required")
	} else if d, ok := snap.Driver(draft.DriverID); ok {
		driver = d
	} else {
		v = append(v, fmt.Sprintf("unknown driver %s", draft.DriverID))
	}
	if draft.TruckID == "" {
		v = append(v, "truck is required")
	} else if t, ok := snap.Truck(draft.TruckID); ok {
		truck = t
		if err := t.Validate(); err != nil {
			v = append(v, err.Error())
		}
	} else {
		v = append(v, fmt.Sprintf("unknown truck %s", draft.TruckID))
	}
	if strings.TrimSpace(draft.DepartureCity) == "" {
		v = append(v, "departure city is required")
	}
	if strings.TrimSpace(draft.ArrivalCity) == "" {
		v = append(v, "arrival city is required")
	}
	if !(draft.DistanceKm > 0) {
		v = append(v, "distance must be positive")
	}
	if draft.PickupTime.IsZero() || draft.DropoffTime.IsZero() {
		v = append(v, "pickup and dropoff times are required")
	} else if !draft.DropoffTime.After(draft.PickupTime) {
		v = append(v, "dropoff must be after pickup")
	}
	if len(v) > 0 {
		return driver, truck, &InputReport{Violations: v}
	}
	return driver, truck, nil
}
