// Package notify delivers messages to drivers.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/fleetops/core/model"
)

// Kind categorizes a notification.
type Kind string

const (
	KindMissionAssigned  Kind = "mission_assigned"
	KindMissionCancelled Kind = "mission_cancelled"
)

// Notification is a message addressed to one driver.
type Notification struct {
	ID        string    `json:"id"`
	DriverID  string    `json:"driver_id"`
	MissionID string    `json:"mission_id,omitempty"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier sends notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }

// MissionAssigned builds the notification sent when m is created.
func MissionAssigned(m model.Mission, now time.Time) Notification {
	return Notification{
		DriverID:  m.DriverID,
		MissionID: m.ID,
		Kind:      KindMissionAssigned,
		Title:     "New mission",
		Message: fmt.Sprintf("%s -> %s, pickup %s, %.0f km",
			m.DepartureCity, m.ArrivalCity, m.PickupTime.Format("2006-01-02 15:04"), m.DistanceKm),
		CreatedAt: now,
	}
}

// MissionCancelled builds the notification sent when m is cancelled.
func MissionCancelled(m model.Mission, now time.Time) Notification {
	return Notification{
		DriverID:  m.DriverID,
		MissionID: m.ID,
		Kind:      KindMissionCancelled,
		Title:     "Mission cancelled",
		Message:   fmt.Sprintf("mission %s -> %s of %s was cancelled", m.DepartureCity, m.ArrivalCity, m.PickupTime.Format("2006-01-02")),
		CreatedAt: now,
	}
}
