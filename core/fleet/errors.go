package fleet

import "errors"

var (
	ErrDriverNotFound  = errors.New("driver not found")
	ErrTruckNotFound   = errors.New("truck not found")
	ErrMissionNotFound = errors.New("mission not found")
	ErrMissionExists   = errors.New("mission already exists")
	// ErrWindowTaken is returned by AddMission when the truck got booked
	// between admission and creation.
	ErrWindowTaken = errors.New("truck already booked for this window")
	// ErrInvalidTransition is returned for lifecycle moves the current
	// status does not allow.
	ErrInvalidTransition = errors.New("invalid mission transition")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)
