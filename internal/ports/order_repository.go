package ports

import (
	"context"
	"store-route-planner/internal/domain"
	"time"
)

// Port: a boundary for retrieving orders from a data source.
type OrderRepository interface {
	// Retrieve pending orders for a delivery date, with store coordinates resolved.
	ListRoutableOrders(ctx context.Context, date time.Time) ([]domain.Order, error)
	// Retrieve all orders regardless of status.
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// Port: read access to the product catalog.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Port: read access to vehicles.
type VehicleRepository interface {
	// Return the vehicles for the given IDs in the same order.
	// Unknown IDs are reported with domain-agnostic ErrVehicleNotFound wrapping.
	GetVehicles(ctx context.Context, ids []string) ([]domain.Vehicle, error)
}
