package admission

import (
	"fmt"
	"strings"
)

// Outcome is the terminal state of an admission evaluation.
type Outcome string

const (
	OutcomeAdmitted    Outcome = "admitted"
	OutcomeRejected    Outcome = "rejected"
	OutcomeNeedsRefuel Outcome = "needs_refuel_decision"
	OutcomeCancelled   Outcome = "cancelled"
)

// Reason names the check that stopped the pipeline.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonInputInvalid         Reason = "input_invalid"
	ReasonDriverBudgetExceeded Reason = "driver_budget_exceeded"
	ReasonTruckWindowConflict  Reason = "truck_window_conflict"
	ReasonFuelInsufficient     Reason = "fuel_insufficient"
)

// Stage is a step of the admission pipeline.
type Stage string

const (
	StageInput  Stage = "input"
	StageDriver Stage = "driver"
	StageTruck  Stage = "truck"
	StageFuel   Stage = "fuel"
	StageDone   Stage = "done"
)

// InputReport lists what is wrong with a draft.
type InputReport struct {
	Violations []string `json:"violations"`
}

// Decision is the result of an admission evaluation. On rejection only the
// diagnostic of the failing check is set; on admission all three are.
type Decision struct {
	Outcome        Outcome             `json:"outcome"`
	Reason         Reason              `json:"reason,omitempty"`
	Stage          Stage               `json:"stage"`
	DriverID       string              `json:"driver_id,omitempty"`
	TruckID        string              `json:"truck_id,omitempty"`
	EstimatedHours float64             `json:"estimated_hours"`
	Input          *InputReport        `json:"input,omitempty"`
	Driver         *BudgetReport       `json:"driver,omitempty"`
	Truck          *AvailabilityReport `json:"truck,omitempty"`
	Fuel           *FuelReport         `json:"fuel,omitempty"`
	// RefuelOptions is only set on OutcomeNeedsRefuel.
	RefuelOptions []RefuelOption `json:"refuel_options,omitempty"`
	// AppliedRefuel is the option resolved by the operator, if any.
	AppliedRefuel *RefuelOption `json:"applied_refuel,omitempty"`
}

// Admitted reports whether the mission may be created.
func (d Decision) Admitted() bool { return d.Outcome == OutcomeAdmitted }

// Tag returns the short outcome tag shown to clients.
func (d Decision) Tag() string {
	switch d.Outcome {
	case OutcomeAdmitted:
		return "admit"
	case OutcomeCancelled:
		return "cancelled"
	}
	switch d.Reason {
	case ReasonInputInvalid:
		return "reject-input"
	case ReasonDriverBudgetExceeded:
		return "reject-driver"
	case ReasonTruckWindowConflict:
		return "reject-truck"
	case ReasonFuelInsufficient:
		return "reject-fuel"
	}
	return string(d.Outcome)
}

// Err returns nil on admission and otherwise the sentinel of the reason
// wrapped with the diagnostic message.
func (d Decision) Err() error {
	if d.Admitted() {
		return nil
	}
	if d.Outcome == OutcomeCancelled {
		return fmt.Errorf("%w: %s", ErrRefuelDeclined, d.Message())
	}
	var sentinel error
	switch d.Reason {
	case ReasonInputInvalid:
		sentinel = ErrInputInvalid
	case ReasonDriverBudgetExceeded:
		sentinel = ErrDriverBudgetExceeded
	case ReasonTruckWindowConflict:
		sentinel = ErrTruckWindowConflict
	case ReasonFuelInsufficient:
		sentinel = ErrFuelInsufficient
	default:
		return fmt.Errorf("admission %s", d.Outcome)
	}
	return fmt.Errorf("%w: %s", sentinel, d.Message())
}

// Message renders the decisive diagnostic.
func (d Decision) Message() string {
	switch {
	case d.Input != nil && len(d.Input.Violations) > 0:
		return strings.Join(d.Input.Violations, "; ")
	case d.Outcome == OutcomeAdmitted:
		parts := make([]string, 0, 3)
		if d.Driver != nil {
			parts = append(parts, d.Driver.Message())
		}
		if d.Truck != nil {
			parts = append(parts, d.Truck.Message())
		}
		if d.Fuel != nil {
			parts = append(parts, d.Fuel.Message())
		}
		return strings.Join(parts, "; ")
	case d.Reason == ReasonDriverBudgetExceeded && d.Driver != nil:
		return d.Driver.Message()
	case d.Reason == ReasonTruckWindowConflict && d.Truck != nil:
		return d.Truck.Message()
	case d.Fuel != nil:
		return d.Fuel.Message()
	}
	return string(d.Outcome)
}
