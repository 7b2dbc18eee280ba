package ports

import "store-route-planner/internal/domain"

// Contract for computing the travel distance, in kilometers, between two points.
// Implementations must be pure: symmetric, zero for identical points and safe
// for concurrent use.
type DistanceProvider interface {
	Distance(a, b domain.Coordinates) float64
}
