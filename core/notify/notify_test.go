package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/fleetops/core/model"
)

func TestMissionAssigned(t *testing.T) {
	now := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	m := model.Mission{ID: "m1", DriverID: "d1", DepartureCity: "Casablanca", ArrivalCity: "Agadir",
		PickupTime: now.Add(14 * time.Hour), DistanceKm: 460}
	n := MissionAssigned(m, now)
	if n.DriverID != "d1" || n.MissionID != "m1" || n.Kind != KindMissionAssigned {
		t.Fatalf("unexpected notification %#v", n)
	}
	if !strings.Contains(n.Message, "Casablanca -> Agadir") || !strings.Contains(n.Message, "460 km") {
		t.Fatalf("unexpected message %q", n.Message)
	}
	if c := MissionCancelled(m, now); c.Kind != KindMissionCancelled {
		t.Fatalf("unexpected kind %s", c.Kind)
	}
	if err := (NopNotifier{}).Notify(context.Background(), n); err != nil {
		t.Fatalf("nop notifier: %v", err)
	}
}
