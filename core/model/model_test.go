package model

import (
	"testing"
	"time"
)

func TestDriverCeilingAndRemaining(t *testing.T) {
	d := Driver{HoursWorked: 45}
	if d.WeeklyCeiling(0) != DefaultContractualHours {
		t.Fatalf("expected default ceiling")
	}
	if d.WeeklyCeiling(48) != 48 {
		t.Fatalf("expected configured ceiling")
	}
	if d.RemainingHours(0) != 0 {
		t.Fatalf("remaining hours must not be negative")
	}
	d.ContractualHours = 50
	if d.RemainingHours(0) != 5 {
		t.Fatalf("expected 5 remaining got %v", d.RemainingHours(0))
	}
}

func TestDriverSame(t *testing.T) {
	d := Driver{ID: "d1", Name: "Amine"}
	cases := []struct {
		id, name string
		want     bool
	}{
		{"d1", "", true},
		// A mission of another driver with the same name does not match.
		{"d2", "Amine", false},
		{"", "Amine", true},
		{"", "", false},
	}
	for _, c := range cases {
		if got := d.Same(c.id, c.name); got != c.want {
			t.Errorf("Same(%q,%q)=%v want %v", c.id, c.name, got, c.want)
		}
	}
}

func TestTruckValidate(t *testing.T) {
	if err := (Truck{ID: "t", TankCapacity: 0}).Validate(); err == nil {
		t.Fatalf("expected capacity error")
	}
	if err := (Truck{ID: "t", TankCapacity: 100, CurrentFuel: 101}).Validate(); err == nil {
		t.Fatalf("expected fuel error")
	}
	if err := (Truck{ID: "t", TankCapacity: 100, CurrentFuel: 100}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTruckFuelHelpers(t *testing.T) {
	tr := Truck{TankCapacity: 400, CurrentFuel: 100}
	if tr.LitersFor(200, 0) != 50 {
		t.Fatalf("expected 50L at default consumption")
	}
	if tr.LitersFor(-1, 0) != 0 {
		t.Fatalf("negative distance must burn nothing")
	}
	if tr.FreeTank() != 300 {
		t.Fatalf("expected 300L free")
	}
	if tr.FuelPercentage() != 25 {
		t.Fatalf("expected 25%%")
	}
	tr.AvgConsumption = 30
	if tr.Consumption(25) != 30 {
		t.Fatalf("recorded consumption must win")
	}
}

func TestTruckSamePlateFallback(t *testing.T) {
	tr := Truck{ID: "t1", Plate: "1234-A-5"}
	if !tr.Same("", "1234-A-5") || !tr.Same("t1", "") || tr.Same("t2", "9999") {
		t.Fatalf("unexpected match result")
	}
}

func TestTimeWindowOverlaps(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }
	w := TimeWindow{Start: h(8), End: h(14)}
	if !w.Overlaps(TimeWindow{Start: h(13), End: h(18)}) {
		t.Fatalf("expected overlap")
	}
	if w.Overlaps(TimeWindow{Start: h(14), End: h(18)}) {
		t.Fatalf("touching windows must not overlap")
	}
	if !w.Overlaps(TimeWindow{Start: h(9), End: h(10)}) {
		t.Fatalf("contained window must overlap")
	}
}

func TestMissionHelpers(t *testing.T) {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	m := Mission{ID: "m", Status: StatusPending, PickupTime: base, ExpectedDropoffTime: base.Add(90 * time.Minute)}
	if m.PlannedHours() != 1.5 {
		t.Fatalf("expected 1.5h got %v", m.PlannedHours())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Status = "lost"
	if m.Validate() == nil {
		t.Fatalf("expected status error")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() || StatusInProgress.Terminal() {
		t.Fatalf("unexpected terminal statuses")
	}
}

func TestDraftToMissionAndSnapshot(t *testing.T) {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	d := MissionDraft{PickupTime: base, DropoffTime: base.Add(time.Hour), DistanceKm: 60, DepartureCity: "A", ArrivalCity: "B"}
	m := d.ToMission("m1", Driver{ID: "d1", Name: "Amine"}, Truck{ID: "t1", Plate: "P"})
	if m.Status != StatusPending || m.DriverName != "Amine" || m.TruckPlate != "P" || m.Window() != d.Window() {
		t.Fatalf("unexpected mission %#v", m)
	}

	snap := Snapshot{Trucks: []Truck{{ID: "t1", CurrentFuel: 10}, {ID: "t2"}}}
	cp := snap.WithTruck(Truck{ID: "t1", CurrentFuel: 99})
	if snap.Trucks[0].CurrentFuel != 10 {
		t.Fatalf("original snapshot modified")
	}
	if tr, _ := cp.Truck("t1"); tr.CurrentFuel != 99 {
		t.Fatalf("copy not updated")
	}
	if _, ok := cp.Driver("d1"); ok {
		t.Fatalf("unexpected driver")
	}
}
