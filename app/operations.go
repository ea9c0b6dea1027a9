package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/admission/logging"
	"github.com/kilianp07/fleetops/core/events"
	"github.com/kilianp07/fleetops/core/fleet"
	"github.com/kilianp07/fleetops/core/fuel"
	"github.com/kilianp07/fleetops/core/model"
	"github.com/kilianp07/fleetops/core/notify"
)

// KindManual tags refuels requested outside an admission.
const KindManual = "manual"

// ErrTankFull is returned by Refuel when the truck cannot take more fuel.
var ErrTankFull = errors.New("tank already full")

// Result is the outcome of an admission that may create a mission.
type Result struct {
	Decision admission.Decision `json:"decision"`
	Mission  *model.Mission     `json:"mission,omitempty"`
	Refuel   *fuel.Entry        `json:"refuel,omitempty"`
}

// Evaluate runs the admission pipeline on the current fleet state without
// changing it. The decision is logged and published.
func (s *Service) Evaluate(ctx context.Context, draft model.MissionDraft) (admission.Decision, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return admission.Decision{}, err
	}
	start := s.now()
	dec := s.coord.Evaluate(snap, draft)
	s.recordDecision(ctx, draft, dec, start, "", nil)
	return dec, nil
}

// CreateMission evaluates draft and creates the pending mission when it is
// admitted. Drafts that need fuel come back with their refuel options and
// are not created. The decision is recorded once the creation is settled.
func (s *Service) CreateMission(ctx context.Context, draft model.MissionDraft) (Result, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	start := s.now()
	dec := s.coord.Evaluate(snap, draft)
	res := Result{Decision: dec}
	if !dec.Admitted() {
		s.recordDecision(ctx, draft, dec, start, "", nil)
		return res, nil
	}
	m, err := s.addMission(snap, draft)
	if err != nil {
		s.recordDecision(ctx, draft, dec, start, "", err)
		return res, err
	}
	s.recordDecision(ctx, draft, dec, start, m.ID, nil)
	s.announce(ctx, m)
	res.Mission = &m
	return res, nil
}

// RefuelAndCreateMission settles a refuel decision. The draft is validated
// again with the chosen refuel applied; on admission the mission is created,
// fuel is added to the truck and the refuel is written to the ledger. If
// any of these steps fails the mission and the fuel are taken back.
func (s *Service) RefuelAndCreateMission(ctx context.Context, draft model.MissionDraft, choice admission.RefuelChoice) (Result, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	start := s.now()
	dec := s.coord.ResolveRefuel(snap, draft, choice)
	res := Result{Decision: dec}
	if !dec.Admitted() {
		s.recordDecision(ctx, draft, dec, start, "", nil)
		return res, nil
	}

	// The store re-checks the truck window; fuel is only added once it
	// accepts the mission.
	m, err := s.addMission(snap, draft)
	if err != nil {
		s.recordDecision(ctx, draft, dec, start, "", err)
		return res, err
	}
	if opt := dec.AppliedRefuel; opt != nil && opt.AmountLiters > 0 {
		entry, err := s.refuel(ctx, m.TruckID, m.ID, string(opt.Kind), opt.AmountLiters, fuel.AutoLocation,
			fmt.Sprintf("refuel for mission %s -> %s", m.DepartureCity, m.ArrivalCity))
		if err != nil {
			if rerr := s.store.RemoveMission(m.ID); rerr != nil {
				err = errors.Join(err, fmt.Errorf("remove mission: %w", rerr))
			}
			err = fmt.Errorf("refuel for mission %s: %w", m.ID, err)
			s.recordDecision(ctx, draft, dec, start, "", err)
			return res, err
		}
		res.Refuel = &entry
	}
	s.recordDecision(ctx, draft, dec, start, m.ID, nil)
	s.announce(ctx, m)
	res.Mission = &m
	return res, nil
}

// Refuel adds liters to a truck outside any admission.
func (s *Service) Refuel(ctx context.Context, truckID string, liters float64) (fuel.Entry, error) {
	return s.refuel(ctx, truckID, "", KindManual, liters, "", "")
}

// refuel adds fuel and writes it to the ledger. The fuel is taken back out
// of the truck when the ledger refuses the entry.
func (s *Service) refuel(ctx context.Context, truckID, missionID, kind string, liters float64, location, notes string) (fuel.Entry, error) {
	_, added, err := s.store.Refuel(truckID, liters)
	if err != nil {
		return fuel.Entry{}, err
	}
	if added <= 0 {
		return fuel.Entry{}, fmt.Errorf("%w: %s", ErrTankFull, truckID)
	}
	now := s.now()
	entry, err := s.ledger.Record(ctx, fuel.Entry{
		TruckID:   truckID,
		MissionID: missionID,
		Liters:    added,
		Cost:      added * s.coord.Config().PricePerLiter,
		Location:  location,
		Notes:     notes,
		CreatedAt: now.UTC(),
	})
	if err != nil {
		err = fmt.Errorf("fuel ledger: %w", err)
		if _, rerr := s.store.RemoveFuel(truckID, added); rerr != nil {
			err = errors.Join(err, fmt.Errorf("undo refuel: %w", rerr))
		}
		return fuel.Entry{}, err
	}
	s.bus.Publish(events.RefuelEvent{
		TruckID:   truckID,
		MissionID: missionID,
		Kind:      kind,
		Liters:    entry.Liters,
		Cost:      entry.Cost,
		Time:      now,
	})
	s.log.Infow("truck refuelled", map[string]any{
		"truck_id": truckID,
		"kind":     kind,
		"liters":   entry.Liters,
		"cost":     entry.Cost,
	})
	return entry, nil
}

// addMission stores the pending mission built from draft without telling
// anyone about it yet.
func (s *Service) addMission(snap model.Snapshot, draft model.MissionDraft) (model.Mission, error) {
	driver, _ := snap.Driver(draft.DriverID)
	truck, _ := snap.Truck(draft.TruckID)
	m := draft.ToMission(uuid.NewString(), driver, truck)
	if err := s.store.AddMission(m); err != nil {
		return model.Mission{}, err
	}
	return m, nil
}

// announce publishes the creation of m and notifies its driver.
func (s *Service) announce(ctx context.Context, m model.Mission) {
	s.publishTransition(m, "")
	s.notifyDriver(ctx, notify.MissionAssigned(m, s.now()))
	s.log.Infof("mission %s created for driver %s on truck %s", m.ID, m.DriverID, m.TruckID)
}

// StartMission moves a pending mission to in progress.
func (s *Service) StartMission(_ context.Context, id string) (model.Mission, error) {
	m, err := s.store.StartMission(id)
	if err != nil {
		return model.Mission{}, err
	}
	s.publishTransition(m, model.StatusPending)
	return m, nil
}

// CompleteMission closes an in-progress mission.
func (s *Service) CompleteMission(_ context.Context, id string) (model.Mission, error) {
	m, err := s.store.CompleteMission(id)
	if err != nil {
		return model.Mission{}, err
	}
	s.publishTransition(m, model.StatusInProgress)
	s.log.Infow("mission completed", map[string]any{
		"mission_id":       m.ID,
		"hours_worked":     m.HoursWorked,
		"actual_fuel_cost": m.ActualFuelCost,
	})
	return m, nil
}

// CancelMission cancels a pending or in-progress mission and tells the
// driver.
func (s *Service) CancelMission(ctx context.Context, id string) (model.Mission, error) {
	prev, err := s.store.Mission(id)
	if err != nil {
		return model.Mission{}, err
	}
	m, err := s.store.CancelMission(id)
	if err != nil {
		return model.Mission{}, err
	}
	s.publishTransition(m, prev.Status)
	s.notifyDriver(ctx, notify.MissionCancelled(m, s.now()))
	return m, nil
}

// Mission returns a mission of the fleet store.
func (s *Service) Mission(_ context.Context, id string) (model.Mission, error) {
	return s.store.Mission(id)
}

// DriverStats totals the completed missions of a driver.
func (s *Service) DriverStats(_ context.Context, driverID string) (model.DriverStats, error) {
	return s.store.DriverStats(driverID)
}

// Snapshot returns the current fleet state.
func (s *Service) Snapshot(ctx context.Context) (model.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Logs queries the decision log.
func (s *Service) Logs(ctx context.Context, q logging.LogQuery) ([]logging.LogRecord, error) {
	return s.logs.Query(ctx, q)
}

// FuelEntries queries the fuel ledger.
func (s *Service) FuelEntries(ctx context.Context, q fuel.Query) ([]fuel.Entry, error) {
	return s.ledger.List(ctx, q)
}

// ResetWeeklyHours zeroes the worked hours of every driver.
func (s *Service) ResetWeeklyHours() int {
	n := s.store.ResetWeeklyHours()
	s.log.Infof("weekly hours reset for %d drivers", n)
	return n
}

// recordDecision logs and publishes dec. missionID is the mission created
// from an admitted draft, commitErr the reason it could not be.
func (s *Service) recordDecision(ctx context.Context, draft model.MissionDraft, dec admission.Decision, start time.Time, missionID string, commitErr error) {
	now := s.now()
	rec := logging.NewRecord(now, draft, dec)
	rec.MissionID = missionID
	if commitErr != nil {
		rec.CommitError = commitErr.Error()
	}
	if err := s.logs.Append(ctx, rec); err != nil {
		s.log.Errorf("decision log: %v", err)
	}
	s.bus.Publish(events.DecisionEvent{
		Draft:     draft,
		Decision:  dec,
		MissionID: missionID,
		CommitErr: commitErr,
		Duration:  now.Sub(start),
		Time:      now,
	})
	if commitErr != nil {
		s.log.Warnf("admitted draft for driver %s on truck %s not created: %v", draft.DriverID, draft.TruckID, commitErr)
		return
	}
	s.log.Debugw("admission decision", map[string]any{
		"driver_id":       draft.DriverID,
		"truck_id":        draft.TruckID,
		"mission_id":      missionID,
		"tag":             dec.Tag(),
		"stage":           string(dec.Stage),
		"estimated_hours": dec.EstimatedHours,
		"message":         dec.Message(),
	})
}

func (s *Service) publishTransition(m model.Mission, from model.MissionStatus) {
	s.bus.Publish(events.MissionEvent{Mission: m, From: from, To: m.Status, Time: s.now()})
}

// notifyDriver never fails the calling operation; delivery errors are logged.
func (s *Service) notifyDriver(ctx context.Context, n notify.Notification) {
	if n.DriverID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warnf("notify driver %s: %v", n.DriverID, err)
	}
}

// IsNotFound reports whether err refers to an unknown fleet object.
func IsNotFound(err error) bool {
	return errors.Is(err, fleet.ErrMissionNotFound) ||
		errors.Is(err, fleet.ErrTruckNotFound) ||
		errors.Is(err, fleet.ErrDriverNotFound)
}
