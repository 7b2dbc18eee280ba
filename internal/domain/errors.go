package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the planning core.
var (
	// ErrInvalidOrderData indicates an order without coordinates or with non-positive demand.
	ErrInvalidOrderData = errors.New("invalid order data")

	// ErrInvalidCapacityInput indicates a non-positive capacity or an unusable item list.
	ErrInvalidCapacityInput = errors.New("invalid capacity input")

	// ErrCapacityExceededBySingleNode indicates one store's demand alone exceeds the capacity.
	ErrCapacityExceededBySingleNode = errors.New("capacity exceeded by single node")

	// ErrNoRoutableOrders indicates an empty order set.
	ErrNoRoutableOrders = errors.New("no routable orders")

	// ErrNoVehicleAssignments indicates a vehicle-bound planning call without vehicles.
	ErrNoVehicleAssignments = errors.New("no vehicle assignments")
)

// OrderDataError names the order that failed validation.
type OrderDataError struct {
	OrderID string
	Reason  string
}

func (e *OrderDataError) Error() string {
	return fmt.Sprintf("%s: order %q: %s", ErrInvalidOrderData, e.OrderID, e.Reason)
}

func (e *OrderDataError) Unwrap() error { return ErrInvalidOrderData }

// NodeCapacityError names the store whose aggregated demand cannot fit.
type NodeCapacityError struct {
	StoreID  string
	Demand   float64
	Capacity float64
}

func (e *NodeCapacityError) Error() string {
	return fmt.Sprintf("%s: store %q demand %.3f exceeds capacity %.3f",
		ErrCapacityExceededBySingleNode, e.StoreID, e.Demand, e.Capacity)
}

func (e *NodeCapacityError) Unwrap() error { return ErrCapacityExceededBySingleNode }
