package ports

import "errors"

var (
	// ErrVehicleNotFound is returned by VehicleRepository for unknown vehicle IDs.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrLockHeld is returned by PlanLocker when another run holds the lock.
	ErrLockHeld = errors.New("lock held")

	// ErrOrderNotPending is returned by PlanSink when a routed order was
	// changed by another writer between planning and saving.
	ErrOrderNotPending = errors.New("order is no longer pending")
)
