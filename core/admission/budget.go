package admission

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/fleetops/core/model"
)

// BudgetPolicy tunes the driver budget check.
type BudgetPolicy struct {
	DefaultContractualHours float64
	CountInProgress         bool
}

// PendingHours is the estimated load of one mission already assigned to the driver.
type PendingHours struct {
	MissionID  string              `json:"mission_id"`
	Status     model.MissionStatus `json:"status"`
	DistanceKm float64             `json:"distance_km"`
	Hours      float64             `json:"hours"`
}

// BudgetReport is the outcome of a driver budget check.
type BudgetReport struct {
	DriverID        string         `json:"driver_id"`
	DriverName      string         `json:"driver_name"`
	Available       bool           `json:"available"`
	Contractual     float64        `json:"contractual_hours"`
	Worked          float64        `json:"worked_hours"`
	Pending         float64        `json:"pending_hours"`
	Candidate       float64        `json:"candidate_hours"`
	TotalAfter      float64        `json:"total_after_hours"`
	Remaining       float64        `json:"remaining_hours"` // contractual - worked - pending, may be negative
	PendingMissions []PendingHours `json:"pending_missions,omitempty"`
}

// Message renders the report for an operator.
func (r BudgetReport) Message() string {
	if r.Available {
		return fmt.Sprintf("driver %s can take the mission: %.1fh of %.0fh after it (worked %.1fh, pending %.1fh, mission %.1fh), %.1fh left",
			r.DriverName, r.TotalAfter, r.Contractual, r.Worked, r.Pending, r.Candidate, r.Contractual-r.TotalAfter)
	}
	return fmt.Sprintf("driver %s would exceed contractual hours: %.1fh of %.0fh (worked %.1fh, pending %.1fh, mission %.1fh), %.1fh available",
		r.DriverName, r.TotalAfter, r.Contractual, r.Worked, r.Pending, r.Candidate, r.Remaining)
}

// CheckDriverBudget decides whether a mission of candidateHours fits in the
// weekly budget of d given the missions of the snapshot. The check is
// recomputed from scratch on every call.
func CheckDriverBudget(d model.Driver, candidateHours float64, missions []model.Mission, p BudgetPolicy) BudgetReport {
	var pending []PendingHours
	var hours []float64
	for _, m := range missions {
		if !p.consumes(m.Status) || !d.Same(m.DriverID, m.DriverName) {
			continue
		}
		h := EstimateWorkHours(m.DistanceKm)
		pending = append(pending, PendingHours{MissionID: m.ID, Status: m.Status, DistanceKm: m.DistanceKm, Hours: h})
		hours = append(hours, h)
	}
	pendingHours := floats.Sum(hours)
	contractual := d.WeeklyCeiling(p.DefaultContractualHours)
	total := d.HoursWorked + pendingHours + candidateHours
	return BudgetReport{
		DriverID:        d.ID,
		DriverName:      d.Name,
		Available:       total <= contractual,
		Contractual:     contractual,
		Worked:          d.HoursWorked,
		Pending:         pendingHours,
		Candidate:       candidateHours,
		TotalAfter:      total,
		Remaining:       contractual - d.HoursWorked - pendingHours,
		PendingMissions: pending,
	}
}

func (p BudgetPolicy) consumes(s model.MissionStatus) bool {
	if s == model.StatusPending {
		return true
	}
	return p.CountInProgress && s == model.StatusInProgress
}
