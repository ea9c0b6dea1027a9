package admission

import (
	"fmt"

	"github.com/kilianp07/fleetops/core/model"
)

// RefuelChoice is the operator answer to a NeedsRefuelDecision outcome.
type RefuelChoice string

const (
	ChoiceTopToNeed RefuelChoice = RefuelChoice(TopToNeed)
	ChoiceTopToFull RefuelChoice = RefuelChoice(TopToFull)
	ChoiceDecline   RefuelChoice = "decline"
)

// ParseRefuelChoice validates a choice received from a client.
func ParseRefuelChoice(s string) (RefuelChoice, error) {
	switch c := RefuelChoice(s); c {
	case ChoiceTopToNeed, ChoiceTopToFull, ChoiceDecline:
		return c, nil
	}
	return "", fmt.Errorf("unknown refuel choice %q", s)
}

// ResolveRefuel settles a NeedsRefuelDecision outcome. The draft is evaluated
// again; if it still needs fuel, the chosen amount is added to the truck of a
// copy of snap and the full pipeline runs once more. Declining yields
// OutcomeCancelled. Drafts that do not need fuel are returned as evaluated.
func (c *Coordinator) ResolveRefuel(snap model.Snapshot, draft model.MissionDraft, choice RefuelChoice) Decision {
	first := c.Evaluate(snap, draft)
	if first.Outcome != OutcomeNeedsRefuel {
		return first
	}
	if choice == ChoiceDecline {
		first.Outcome = OutcomeCancelled
		first.RefuelOptions = nil
		return first
	}
	opt, ok := first.Fuel.Option(RefuelKind(choice))
	if !ok {
		return Decision{
			Outcome:  OutcomeRejected,
			Reason:   ReasonInputInvalid,
			Stage:    StageInput,
			DriverID: draft.DriverID,
			TruckID:  draft.TruckID,
			Input:    &InputReport{Violations: []string{fmt.Sprintf("unknown refuel choice %q", choice)}},
		}
	}
	if !opt.Sufficient {
		first.Outcome = OutcomeRejected
		first.RefuelOptions = nil
		return first
	}
	truck, _ := snap.Truck(draft.TruckID)
	truck.CurrentFuel = afterRefuel(truck, opt.AmountLiters)
	dec := c.Evaluate(snap.WithTruck(truck), draft)
	dec.AppliedRefuel = &opt
	return dec
}
