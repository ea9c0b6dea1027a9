package fleet

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/kilianp07/fleetops/core/model"
)

// Options tunes the side effects of the mission lifecycle.
type Options struct {
	// DefaultAvgConsumption is used to deduct fuel on completion when a
	// truck has no recorded consumption.
	DefaultAvgConsumption float64
	// PricePerLiter costs the fuel burnt by a completed mission.
	PricePerLiter float64
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// MemoryStore keeps drivers, trucks and missions in memory. It is safe for
// concurrent use and hands out copies only.
type MemoryStore struct {
	mu       sync.RWMutex
	drivers  map[string]model.Driver
	trucks   map[string]model.Truck
	missions map[string]model.Mission
	opts     Options
}

// NewMemoryStore seeds a store from snap.
func NewMemoryStore(snap model.Snapshot, opts Options) *MemoryStore {
	if opts.DefaultAvgConsumption <= 0 {
		opts.DefaultAvgConsumption = model.DefaultAvgConsumption
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &MemoryStore{
		drivers:  make(map[string]model.Driver, len(snap.Drivers)),
		trucks:   make(map[string]model.Truck, len(snap.Trucks)),
		missions: make(map[string]model.Mission, len(snap.Missions)),
		opts:     opts,
	}
	for _, d := range snap.Drivers {
		s.drivers[d.ID] = d
	}
	for _, t := range snap.Trucks {
		s.trucks[t.ID] = t
	}
	for _, m := range snap.Missions {
		s.missions[m.ID] = copyMission(m)
	}
	return s
}

// Snapshot returns a copy of the current state sorted by id.
func (s *MemoryStore) Snapshot(ctx context.Context) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := model.Snapshot{
		Drivers:  make([]model.Driver, 0, len(s.drivers)),
		Trucks:   make([]model.Truck, 0, len(s.trucks)),
		Missions: make([]model.Mission, 0, len(s.missions)),
	}
	for _, d := range s.drivers {
		snap.Drivers = append(snap.Drivers, d)
	}
	for _, t := range s.trucks {
		snap.Trucks = append(snap.Trucks, t)
	}
	for _, m := range s.missions {
		snap.Missions = append(snap.Missions, copyMission(m))
	}
	sort.Slice(snap.Drivers, func(i, j int) bool { return snap.Drivers[i].ID < snap.Drivers[j].ID })
	sort.Slice(snap.Trucks, func(i, j int) bool { return snap.Trucks[i].ID < snap.Trucks[j].ID })
	sort.Slice(snap.Missions, func(i, j int) bool { return snap.Missions[i].ID < snap.Missions[j].ID })
	return snap, nil
}

// Mission returns the mission with the given id.
func (s *MemoryStore) Mission(id string) (model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[id]
	if !ok {
		return model.Mission{}, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
	}
	return copyMission(m), nil
}

// Refuel adds liters to the truck, capped at the tank capacity. It returns
// the updated truck and the quantity actually added.
func (s *MemoryStore) Refuel(truckID string, liters float64) (model.Truck, float64, error) {
	if !(liters > 0) {
		return model.Truck{}, 0, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trucks[truckID]
	if !ok {
		return model.Truck{}, 0, fmt.Errorf("%w: %s", ErrTruckNotFound, truckID)
	}
	added := math.Min(liters, t.FreeTank())
	t.CurrentFuel += added
	s.trucks[truckID] = t
	return t, added, nil
}

// RemoveFuel takes liters out of the truck, never going below empty. It
// undoes a Refuel whose follow-up failed.
func (s *MemoryStore) RemoveFuel(truckID string, liters float64) (model.Truck, error) {
	if !(liters > 0) {
		return model.Truck{}, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trucks[truckID]
	if !ok {
		return model.Truck{}, fmt.Errorf("%w: %s", ErrTruckNotFound, truckID)
	}
	t.CurrentFuel = math.Max(0, t.CurrentFuel-liters)
	s.trucks[truckID] = t
	return t, nil
}

// RemoveMission deletes a mission, freeing its truck window.
func (s *MemoryStore) RemoveMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrMissionNotFound, id)
	}
	delete(s.missions, id)
	return nil
}

// AddMission stores a new mission. The truck window is checked again under
// the write lock so two admissions racing for the same slot cannot both be
// created.
func (s *MemoryStore) AddMission(m model.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[m.ID]; ok {
		return fmt.Errorf("%w: %s", ErrMissionExists, m.ID)
	}
	if m.DriverID != "" {
		if _, ok := s.drivers[m.DriverID]; !ok {
			return fmt.Errorf("%w: %s", ErrDriverNotFound, m.DriverID)
		}
	}
	truck, ok := s.trucks[m.TruckID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTruckNotFound, m.TruckID)
	}
	if !m.Status.Terminal() {
		for _, o := range s.missions {
			if o.Status.Terminal() || !truck.Same(o.TruckID, o.TruckPlate) {
				continue
			}
			if m.Window().Overlaps(o.Window()) {
				return fmt.Errorf("%w: conflicts with mission %s", ErrWindowTaken, o.ID)
			}
		}
	}
	s.missions[m.ID] = copyMission(m)
	return nil
}

// StartMission moves a pending mission to in_progress.
func (s *MemoryStore) StartMission(id string) (model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(id)
	if err != nil {
		return model.Mission{}, err
	}
	if m.Status != model.StatusPending {
		return model.Mission{}, fmt.Errorf("%w: cannot start mission %s in status %s", ErrInvalidTransition, id, m.Status)
	}
	now := s.opts.Now()
	m.Status = model.StatusInProgress
	m.ActualStartTime = &now
	s.missions[id] = m
	return copyMission(m), nil
}

// CompleteMission closes an in-progress mission. The driver is credited
// with the planned duration and the truck loses the fuel burnt over the
// route, never going below empty.
func (s *MemoryStore) CompleteMission(id string) (model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(id)
	if err != nil {
		return model.Mission{}, err
	}
	if m.Status != model.StatusInProgress {
		return model.Mission{}, fmt.Errorf("%w: mission %s is not in progress (%s)", ErrInvalidTransition, id, m.Status)
	}
	now := s.opts.Now()
	m.Status = model.StatusCompleted
	m.ActualEndTime = &now
	m.HoursWorked = m.PlannedHours()

	if t, ok := s.truckFor(m); ok {
		liters := t.LitersFor(m.DistanceKm, s.opts.DefaultAvgConsumption)
		t.CurrentFuel = math.Max(0, t.CurrentFuel-liters)
		s.trucks[t.ID] = t
		m.ActualFuelCost = liters * s.opts.PricePerLiter
	}
	for did, d := range s.drivers {
		if d.Same(m.DriverID, m.DriverName) {
			d.HoursWorked += m.HoursWorked
			s.drivers[did] = d
			break
		}
	}
	s.missions[id] = m
	return copyMission(m), nil
}

// CancelMission cancels a pending or in-progress mission.
func (s *MemoryStore) CancelMission(id string) (model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(id)
	if err != nil {
		return model.Mission{}, err
	}
	if m.Status.Terminal() {
		return model.Mission{}, fmt.Errorf("%w: mission %s already %s", ErrInvalidTransition, id, m.Status)
	}
	m.Status = model.StatusCancelled
	s.missions[id] = m
	return copyMission(m), nil
}

// ResetWeeklyHours zeroes the worked hours of every driver, active or not,
// and returns how many drivers were reset.
func (s *MemoryStore) ResetWeeklyHours() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.drivers {
		d.HoursWorked = 0
		s.drivers[id] = d
	}
	return len(s.drivers)
}

// DriverStats sums distance and worked hours over the completed missions of
// the driver.
func (s *MemoryStore) DriverStats(driverID string) (model.DriverStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[driverID]
	if !ok {
		return model.DriverStats{}, fmt.Errorf("%w: %s", ErrDriverNotFound, driverID)
	}
	st := model.DriverStats{DriverID: d.ID}
	for _, m := range s.missions {
		if m.Status != model.StatusCompleted || !d.Same(m.DriverID, m.DriverName) {
			continue
		}
		st.CompletedMissions++
		st.TotalKilometers += m.DistanceKm
		st.TotalHoursWorked += m.HoursWorked
	}
	return st, nil
}

func (s *MemoryStore) lookup(id string) (model.Mission, error) {
	m, ok := s.missions[id]
	if !ok {
		return model.Mission{}, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
	}
	return m, nil
}

func (s *MemoryStore) truckFor(m model.Mission) (model.Truck, bool) {
	if t, ok := s.trucks[m.TruckID]; ok {
		return t, true
	}
	for _, t := range s.trucks {
		if t.Same("", m.TruckPlate) {
			return t, true
		}
	}
	return model.Truck{}, false
}

func copyMission(m model.Mission) model.Mission {
	if m.ActualStartTime != nil {
		v := *m.ActualStartTime
		m.ActualStartTime = &v
	}
	if m.ActualEndTime != nil {
		v := *m.ActualEndTime
		m.ActualEndTime = &v
	}
	return m
}
