package model

import "fmt"

// DefaultAvgConsumption is the consumption in liters per 100 km assumed for a
// truck without a recorded average.
const DefaultAvgConsumption = 25.0

// Truck is a vehicle of the fleet.
type Truck struct {
	ID             string  `json:"id" yaml:"id"`
	Plate          string  `json:"plate" yaml:"plate"` // unique registration, used when ids are missing
	Brand          string  `json:"brand" yaml:"brand"`
	TankCapacity   float64 `json:"tank_capacity" yaml:"tank_capacity"`     // liters
	CurrentFuel    float64 `json:"current_fuel" yaml:"current_fuel"`       // liters
	AvgConsumption float64 `json:"avg_consumption" yaml:"avg_consumption"` // liters/100km, <= 0 when unknown
}

// Validate checks the fuel figures are coherent.
func (t Truck) Validate() error {
	if t.TankCapacity <= 0 {
		return fmt.Errorf("truck %s: tank capacity must be positive", t.ID)
	}
	if t.CurrentFuel < 0 || t.CurrentFuel > t.TankCapacity {
		return fmt.Errorf("truck %s: current fuel %.1f outside [0, %.1f]", t.ID, t.CurrentFuel, t.TankCapacity)
	}
	return nil
}

// Consumption returns the average consumption or def when unknown.
// A non-positive def falls back to DefaultAvgConsumption.
func (t Truck) Consumption(def float64) float64 {
	if t.AvgConsumption > 0 {
		return t.AvgConsumption
	}
	if def > 0 {
		return def
	}
	return DefaultAvgConsumption
}

// LitersFor returns the fuel burnt over distanceKm.
func (t Truck) LitersFor(distanceKm, def float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm * t.Consumption(def) / 100
}

// FreeTank returns the liters that fit in the tank.
func (t Truck) FreeTank() float64 {
	free := t.TankCapacity - t.CurrentFuel
	if free < 0 {
		return 0
	}
	return free
}

// FuelPercentage returns the tank level between 0 and 100.
func (t Truck) FuelPercentage() int {
	if t.TankCapacity <= 0 {
		return 0
	}
	return int(t.CurrentFuel / t.TankCapacity * 100)
}

// Same reports whether the reference (id, plate) designates t. Ids are
// compared first; the plate is the fallback key since upstream records may
// carry only one of the two.
func (t Truck) Same(id, plate string) bool {
	if id != "" && id == t.ID {
		return true
	}
	return plate != "" && plate == t.Plate
}
