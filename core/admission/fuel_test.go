package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetops/core/model"
)

func TestCheckFuelInsufficient(t *testing.T) {
	truck := model.Truck{ID: "t2", TankCapacity: 400, CurrentFuel: 50, AvgConsumption: 25}
	rep := CheckFuel(truck, 340, FuelPolicy{PricePerLiter: 15})

	assert.False(t, rep.Enough)
	assert.InDelta(t, 85, rep.NeededLiters, 1e-9)
	assert.InDelta(t, 35, rep.MissingLiters, 1e-9)
	assert.InDelta(t, 350, rep.FullTankLiters, 1e-9)
	assert.InDelta(t, 525, rep.RefuelCostNeeded, 1e-9)
	assert.InDelta(t, 5250, rep.FullTankCost, 1e-9)

	need, ok := rep.Option(TopToNeed)
	require.True(t, ok)
	assert.InDelta(t, 35, need.AmountLiters, 1e-9)
	assert.True(t, need.Sufficient)
	full, ok := rep.Option(TopToFull)
	require.True(t, ok)
	assert.InDelta(t, 350, full.AmountLiters, 1e-9)
	assert.True(t, full.Sufficient)
}

func TestCheckFuelEnough(t *testing.T) {
	truck := model.Truck{ID: "t1", TankCapacity: 400, CurrentFuel: 85, AvgConsumption: 25}
	rep := CheckFuel(truck, 340, FuelPolicy{PricePerLiter: 15})
	assert.True(t, rep.Enough)
	assert.Empty(t, rep.Options)
	assert.Zero(t, rep.MissingLiters)
	assert.InDelta(t, 85*15, rep.EstimatedCost, 1e-9)
}

func TestCheckFuelDefaults(t *testing.T) {
	truck := model.Truck{ID: "t1", TankCapacity: 400, CurrentFuel: 10}
	rep := CheckFuel(truck, 100, FuelPolicy{})
	assert.Equal(t, model.DefaultAvgConsumption, rep.AvgConsumption)
	assert.Equal(t, DefaultPricePerLiter, rep.PricePerLiter)
	assert.InDelta(t, 25, rep.NeededLiters, 1e-9)
}

func TestCheckFuelRouteLongerThanTank(t *testing.T) {
	truck := model.Truck{ID: "t1", TankCapacity: 200, CurrentFuel: 20, AvgConsumption: 25}
	rep := CheckFuel(truck, 1000, FuelPolicy{PricePerLiter: 15})
	require.False(t, rep.Enough)
	need, _ := rep.Option(TopToNeed)
	full, _ := rep.Option(TopToFull)
	assert.False(t, need.Sufficient)
	assert.False(t, full.Sufficient)
}

func TestCheckFuelDoesNotMutate(t *testing.T) {
	truck := model.Truck{ID: "t1", TankCapacity: 400, CurrentFuel: 50, AvgConsumption: 25}
	_ = CheckFuel(truck, 340, FuelPolicy{})
	assert.Equal(t, 50.0, truck.CurrentFuel)
}
