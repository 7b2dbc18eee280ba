package domain

import (
	"strings"
	"time"
)

const (
	OrderStatusPending = "Pending"
	OrderStatusRouted  = "Routed"
)

// A single product line of an order.
type OrderItem struct {
	ProductID string
	Quantity  int
}

// Represents a delivery order placed by a store.
// Orders are read-only input for planning; Location is resolved from the
// store record by the repository and is nil when the store has none.
type Order struct {
	ID                  string
	StoreID             string
	Location            *Coordinates
	Items               []OrderItem
	DesiredDeliveryDate time.Time
	Priority            bool
	Status              string
	AssignedVehicleID   *string
}

// Demand converts the order items into capacity units using the catalog.
func (o Order) Demand(catalog ProductCatalog) (float64, error) {
	total := 0.0
	for _, it := range o.Items {
		if it.Quantity < 0 {
			return 0, &OrderDataError{OrderID: o.ID, Reason: "negative quantity for product " + it.ProductID}
		}
		p, ok := catalog[it.ProductID]
		if !ok {
			return 0, &OrderDataError{OrderID: o.ID, Reason: "unknown product " + it.ProductID}
		}
		if p.CapacityFactor <= 0 {
			return 0, &OrderDataError{OrderID: o.ID, Reason: "non-positive capacity factor for product " + it.ProductID}
		}
		total += float64(it.Quantity) * p.CapacityFactor
	}
	return total, nil
}

// Validate checks the fields routing depends on and returns the demand.
func (o Order) Validate(catalog ProductCatalog) (float64, error) {
	if strings.TrimSpace(o.StoreID) == "" {
		return 0, &OrderDataError{OrderID: o.ID, Reason: "missing store"}
	}
	if o.Location == nil || o.Location.IsZero() {
		return 0, &OrderDataError{OrderID: o.ID, Reason: "missing store coordinates"}
	}

	demand, err := o.Demand(catalog)
	if err != nil {
		return 0, err
	}
	if demand <= 0 {
		return 0, &OrderDataError{OrderID: o.ID, Reason: "demand must be positive"}
	}
	return demand, nil
}
