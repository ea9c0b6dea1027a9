package admission

import (
	"fmt"

	"github.com/kilianp07/fleetops/core/model"
)

// DefaultPricePerLiter is the fuel price used when none is configured.
const DefaultPricePerLiter = 15.0

// Config defines admission-related settings.
type Config struct {
	// DefaultContractualHours applies to drivers without contractual hours.
	DefaultContractualHours float64 `json:"default_contractual_hours"`
	// DefaultAvgConsumption applies to trucks without an average consumption (L/100km).
	DefaultAvgConsumption float64 `json:"default_avg_consumption"`
	// PricePerLiter is the fuel price used to cost refuel options.
	PricePerLiter float64 `json:"price_per_liter"`
	// CountInProgress makes in-progress missions consume the driver budget
	// in addition to pending ones.
	CountInProgress bool `json:"count_in_progress"`
}

// SetDefaults fills unset values. Negative values are left for Validate.
func (c *Config) SetDefaults() {
	if c.DefaultContractualHours == 0 {
		c.DefaultContractualHours = model.DefaultContractualHours
	}
	if c.DefaultAvgConsumption == 0 {
		c.DefaultAvgConsumption = model.DefaultAvgConsumption
	}
	if c.PricePerLiter == 0 {
		c.PricePerLiter = DefaultPricePerLiter
	}
}

// Validate rejects negative figures.
func (c Config) Validate() error {
	if c.DefaultContractualHours < 0 {
		return fmt.Errorf("default_contractual_hours must not be negative")
	}
	if c.DefaultAvgConsumption < 0 {
		return fmt.Errorf("default_avg_consumption must not be negative")
	}
	if c.PricePerLiter < 0 {
		return fmt.Errorf("price_per_liter must not be negative")
	}
	return nil
}

func (c Config) budgetPolicy() BudgetPolicy {
	return BudgetPolicy{DefaultContractualHours: c.DefaultContractualHours, CountInProgress: c.CountInProgress}
}

func (c Config) fuelPolicy() FuelPolicy {
	return FuelPolicy{PricePerLiter: c.PricePerLiter, DefaultAvgConsumption: c.DefaultAvgConsumption}
}
