package admission

import "errors"

var (
	// ErrInputInvalid is reported for malformed drafts.
	ErrInputInvalid = errors.New("invalid mission draft")
	// ErrDriverBudgetExceeded is reported when the driver would exceed the weekly budget.
	ErrDriverBudgetExceeded = errors.New("driver budget exceeded")
	// ErrTruckWindowConflict is reported when the truck is already booked in the window.
	ErrTruckWindowConflict = errors.New("truck window conflict")
	// ErrFuelInsufficient is reported when the truck lacks fuel for the route.
	// It always comes with refuel options unless no option can cover the route.
	ErrFuelInsufficient = errors.New("fuel insufficient")
	// ErrRefuelDeclined is reported when the operator declines every refuel option.
	ErrRefuelDeclined = errors.New("refuel declined")
)
