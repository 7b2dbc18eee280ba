package ports

import (
	"context"
	"store-route-planner/internal/domain"
)

// Port: persistence sink for planned routes.
type PlanSink interface {
	// SavePlans stores the plans and marks every routed order as Routed with
	// its assigned vehicle, atomically. Plans without a vehicle replace the
	// vehicle-less plans already stored for their date.
	SavePlans(ctx context.Context, plans []*domain.RoutePlan) error
}
