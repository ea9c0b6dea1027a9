package admission

import (
	"time"

	"github.com/kilianp07/fleetops/core/model"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

// fleet returns a snapshot where everything fits a 340 km mission of d1/t1.
func fleet() model.Snapshot {
	return model.Snapshot{
		Drivers: []model.Driver{
			{ID: "d1", Name: "Amine", HoursWorked: 10, ContractualHours: 40},
			{ID: "d2", Name: "Sara", HoursWorked: 38, ContractualHours: 40},
		},
		Trucks: []model.Truck{
			{ID: "t1", Plate: "1234-A-5", TankCapacity: 400, CurrentFuel: 300, AvgConsumption: 25},
			{ID: "t2", Plate: "9876-B-1", TankCapacity: 400, CurrentFuel: 50, AvgConsumption: 25},
		},
	}
}

func draft() model.MissionDraft {
	return model.MissionDraft{
		DriverID:      "d1",
		TruckID:       "t1",
		PickupTime:    at(8),
		DropoffTime:   at(14),
		DistanceKm:    340,
		DepartureCity: "Casablanca",
		ArrivalCity:   "Marrakech",
	}
}
