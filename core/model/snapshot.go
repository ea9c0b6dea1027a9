package model

// Snapshot is a read-only view of the fleet fetched before an admission.
type Snapshot struct {
	Drivers  []Driver  `json:"drivers" yaml:"drivers"`
	Trucks   []Truck   `json:"trucks" yaml:"trucks"`
	Missions []Mission `json:"missions" yaml:"missions"`
}

// Driver returns the driver with the given id.
func (s Snapshot) Driver(id string) (Driver, bool) {
	for _, d := range s.Drivers {
		if d.ID == id {
			return d, true
		}
	}
	return Driver{}, false
}

// Truck returns the truck with the given id.
func (s Snapshot) Truck(id string) (Truck, bool) {
	for _, t := range s.Trucks {
		if t.ID == id {
			return t, true
		}
	}
	return Truck{}, false
}

// WithTruck returns a copy of the snapshot where the truck sharing t's id is
// replaced by t. Slices other than Trucks are shared.
func (s Snapshot) WithTruck(t Truck) Snapshot {
	out := s
	out.Trucks = make([]Truck, len(s.Trucks))
	copy(out.Trucks, s.Trucks)
	for i := range out.Trucks {
		if out.Trucks[i].ID == t.ID {
			out.Trucks[i] = t
		}
	}
	return out
}
