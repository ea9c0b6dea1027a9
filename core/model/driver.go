package model

// DefaultContractualHours is the weekly ceiling applied when a driver has no
// contractual hours recorded.
const DefaultContractualHours = 40.0

// Driver is a member of staff that can be assigned to missions.
type Driver struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	HoursWorked      float64 `json:"hours_worked" yaml:"hours_worked"`           // hours logged in the current weekly cycle
	ContractualHours float64 `json:"contractual_hours" yaml:"contractual_hours"` // weekly ceiling, <= 0 when unknown
	Active           bool    `json:"active" yaml:"active"`
}

// WeeklyCeiling returns the contractual hours, falling back to def when the
// value is unknown. A non-positive def falls back to DefaultContractualHours.
func (d Driver) WeeklyCeiling(def float64) float64 {
	if d.ContractualHours > 0 {
		return d.ContractualHours
	}
	if def > 0 {
		return def
	}
	return DefaultContractualHours
}

// RemainingHours returns the unused part of the weekly ceiling, never negative.
func (d Driver) RemainingHours(def float64) float64 {
	r := d.WeeklyCeiling(def) - d.HoursWorked
	if r < 0 {
		return 0
	}
	return r
}

// Same reports whether the reference (id, name) designates d. The name is
// only consulted when the reference carries no id: two drivers may share a
// name, so a mission booked for one must not count against the other.
func (d Driver) Same(id, name string) bool {
	if id != "" {
		return id == d.ID
	}
	return name != "" && name == d.Name
}

// DriverStats totals the completed missions of a driver.
type DriverStats struct {
	DriverID          string  `json:"driver_id"`
	CompletedMissions int     `json:"completed_missions"`
	TotalKilometers   float64 `json:"total_kilometers"`
	TotalHoursWorked  float64 `json:"total_hours_worked"`
}
