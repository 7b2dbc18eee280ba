package ports

import (
	"context"
	"store-route-planner/internal/domain"
)

// Contract for resolving free-text addresses to coordinates.
type Geocoder interface {
	// Return coordinates keyed by normalized address.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}
