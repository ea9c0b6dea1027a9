package model

import (
	"fmt"
	"time"
)

// MissionStatus is the lifecycle state of a mission.
type MissionStatus string

const (
	StatusPending    MissionStatus = "pending"
	StatusInProgress MissionStatus = "in_progress"
	StatusCompleted  MissionStatus = "completed"
	StatusCancelled  MissionStatus = "cancelled"
)

// Terminal reports whether the status no longer holds fleet resources.
func (s MissionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status.
func (s MissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Mission is an existing mission of the fleet snapshot. Driver and truck
// references are empty when unassigned.
type Mission struct {
	ID                  string        `json:"id" yaml:"id"`
	DriverID            string        `json:"driver_id,omitempty" yaml:"driver_id"`
	DriverName          string        `json:"driver_name,omitempty" yaml:"driver_name"`
	TruckID             string        `json:"truck_id,omitempty" yaml:"truck_id"`
	TruckPlate          string        `json:"truck_plate,omitempty" yaml:"truck_plate"`
	Status              MissionStatus `json:"status" yaml:"status"`
	PickupTime          time.Time     `json:"pickup_time" yaml:"pickup_time"`
	ExpectedDropoffTime time.Time     `json:"expected_dropoff_time" yaml:"expected_dropoff_time"`
	DistanceKm          float64       `json:"distance_km" yaml:"distance_km"`
	DepartureCity       string        `json:"departure_city,omitempty" yaml:"departure_city"`
	ArrivalCity         string        `json:"arrival_city,omitempty" yaml:"arrival_city"`
	ContainerNumber     string        `json:"container_number,omitempty" yaml:"container_number"`
	ContainerType       string        `json:"container_type,omitempty" yaml:"container_type"`
	ActualStartTime     *time.Time    `json:"actual_start_time,omitempty" yaml:"actual_start_time"`
	ActualEndTime       *time.Time    `json:"actual_end_time,omitempty" yaml:"actual_end_time"`
	HoursWorked         float64       `json:"hours_worked,omitempty" yaml:"hours_worked"`
	ActualFuelCost      float64       `json:"actual_fuel_cost,omitempty" yaml:"actual_fuel_cost"`
}

// Window returns the planned [pickup, dropoff) interval.
func (m Mission) Window() TimeWindow {
	return TimeWindow{Start: m.PickupTime, End: m.ExpectedDropoffTime}
}

// PlannedHours returns the planned duration in hours. Completed missions are
// accounted on the planned window, not on the actual one.
func (m Mission) PlannedHours() float64 {
	d := m.ExpectedDropoffTime.Sub(m.PickupTime)
	if d <= 0 {
		return 0
	}
	return d.Hours()
}

// Validate checks the mission is self-consistent.
func (m Mission) Validate() error {
	if !m.Status.Valid() {
		return fmt.Errorf("mission %s: unknown status %q", m.ID, m.Status)
	}
	if !m.ExpectedDropoffTime.After(m.PickupTime) {
		return fmt.Errorf("mission %s: dropoff must be after pickup", m.ID)
	}
	return nil
}

// TimeWindow is a half-open [Start, End) interval.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether w and o intersect. End instants are exclusive so
// windows that only touch do not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// MissionDraft is a candidate mission that has not been created yet.
type MissionDraft struct {
	DriverID        string    `json:"driver_id" yaml:"driver_id"`
	TruckID         string    `json:"truck_id" yaml:"truck_id"`
	PickupTime      time.Time `json:"pickup_time" yaml:"pickup_time"`
	DropoffTime     time.Time `json:"dropoff_time" yaml:"dropoff_time"`
	DistanceKm      float64   `json:"distance_km" yaml:"distance_km"`
	DepartureCity   string    `json:"departure_city" yaml:"departure_city"`
	ArrivalCity     string    `json:"arrival_city" yaml:"arrival_city"`
	ContainerNumber string    `json:"container_number,omitempty" yaml:"container_number"`
	ContainerType   string    `json:"container_type,omitempty" yaml:"container_type"`
}

// Window returns the proposed [pickup, dropoff) interval.
func (d MissionDraft) Window() TimeWindow {
	return TimeWindow{Start: d.PickupTime, End: d.DropoffTime}
}

// ToMission builds the pending mission created from the draft.
func (d MissionDraft) ToMission(id string, driver Driver, truck Truck) Mission {
	return Mission{
		ID:                  id,
		DriverID:            driver.ID,
		DriverName:          driver.Name,
		TruckID:             truck.ID,
		TruckPlate:          truck.Plate,
		Status:              StatusPending,
		PickupTime:          d.PickupTime,
		ExpectedDropoffTime: d.DropoffTime,
		DistanceKm:          d.DistanceKm,
		DepartureCity:       d.DepartureCity,
		ArrivalCity:         d.ArrivalCity,
		ContainerNumber:     d.ContainerNumber,
		ContainerType:       d.ContainerType,
	}
}
