package admission

import (
	"fmt"
	"math"

	"github.com/kilianp07/fleetops/core/model"
)

// fuelTolerance absorbs rounding when a refuel brings the tank exactly to the
// needed quantity.
const fuelTolerance = 1e-9

// RefuelKind identifies a remediation option.
type RefuelKind string

const (
	// TopToNeed adds exactly the missing liters.
	TopToNeed RefuelKind = "topToNeed"
	// TopToFull fills the tank.
	TopToFull RefuelKind = "topToFull"
)

// RefuelOption is one way to make a route feasible.
type RefuelOption struct {
	Kind         RefuelKind `json:"type"`
	AmountLiters float64    `json:"amount_liters"`
	Cost         float64    `json:"cost"`
	// Sufficient is false when applying the option still leaves the truck
	// short, e.g. the missing quantity does not fit in the tank.
	Sufficient bool `json:"sufficient"`
}

// FuelPolicy tunes the fuel check.
type FuelPolicy struct {
	PricePerLiter         float64
	DefaultAvgConsumption float64
}

func (p FuelPolicy) price() float64 {
	if p.PricePerLiter > 0 {
		return p.PricePerLiter
	}
	return DefaultPricePerLiter
}

// FuelReport is the outcome of a fuel feasibility check.
type FuelReport struct {
	TruckID          string         `json:"truck_id"`
	Enough           bool           `json:"enough"`
	DistanceKm       float64        `json:"distance_km"`
	CurrentFuel      float64        `json:"current_fuel"`
	TankCapacity     float64        `json:"tank_capacity"`
	AvgConsumption   float64        `json:"avg_consumption"`
	NeededLiters     float64        `json:"needed_liters"`
	PricePerLiter    float64        `json:"price_per_liter"`
	EstimatedCost    float64        `json:"estimated_cost"`
	MissingLiters    float64        `json:"missing_liters,omitempty"`
	FullTankLiters   float64        `json:"full_tank_liters,omitempty"`
	RefuelCostNeeded float64        `json:"refuel_cost_needed,omitempty"`
	FullTankCost     float64        `json:"full_tank_cost,omitempty"`
	Options          []RefuelOption `json:"options,omitempty"`
}

// Option returns the remediation option of the given kind.
func (r FuelReport) Option(kind RefuelKind) (RefuelOption, bool) {
	for _, o := range r.Options {
		if o.Kind == kind {
			return o, true
		}
	}
	return RefuelOption{}, false
}

// Message renders the report for an operator.
func (r FuelReport) Message() string {
	if r.Enough {
		return fmt.Sprintf("fuel: %.1fL on board, %.1fL needed", r.CurrentFuel, r.NeededLiters)
	}
	return fmt.Sprintf("not enough fuel: %.1fL on board, %.1fL needed, %.1fL missing (add %.0fL for %.0f, or fill %.0fL for %.0f)",
		r.CurrentFuel, r.NeededLiters, r.MissingLiters, r.MissingLiters, r.RefuelCostNeeded, r.FullTankLiters, r.FullTankCost)
}

// CheckFuel computes whether t carries enough fuel for distanceKm and, when
// it does not, the two refuel options. The truck is not modified.
func CheckFuel(t model.Truck, distanceKm float64, p FuelPolicy) FuelReport {
	price := p.price()
	needed := t.LitersFor(distanceKm, p.DefaultAvgConsumption)
	rep := FuelReport{
		TruckID:        t.ID,
		DistanceKm:     distanceKm,
		CurrentFuel:    t.CurrentFuel,
		TankCapacity:   t.TankCapacity,
		AvgConsumption: t.Consumption(p.DefaultAvgConsumption),
		NeededLiters:   needed,
		PricePerLiter:  price,
		EstimatedCost:  needed * price,
		Enough:         covers(t.CurrentFuel, needed),
	}
	if rep.Enough {
		return rep
	}
	rep.MissingLiters = needed - t.CurrentFuel
	rep.FullTankLiters = t.FreeTank()
	rep.RefuelCostNeeded = rep.MissingLiters * price
	rep.FullTankCost = rep.FullTankLiters * price
	rep.Options = []RefuelOption{
		{
			Kind:         TopToNeed,
			AmountLiters: rep.MissingLiters,
			Cost:         rep.RefuelCostNeeded,
			Sufficient:   covers(afterRefuel(t, rep.MissingLiters), needed),
		},
		{
			Kind:         TopToFull,
			AmountLiters: rep.FullTankLiters,
			Cost:         rep.FullTankCost,
			Sufficient:   covers(afterRefuel(t, rep.FullTankLiters), needed),
		},
	}
	return rep
}

// afterRefuel returns the fuel on board once liters are added, capped at the
// tank capacity.
func afterRefuel(t model.Truck, liters float64) float64 {
	return math.Min(t.CurrentFuel+liters, t.TankCapacity)
}

func covers(onBoard, needed float64) bool {
	return onBoard+fuelTolerance >= needed
}
