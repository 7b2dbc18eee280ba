package services

import (
	"context"
	"errors"
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/ports"
	"time"

	"github.com/google/uuid"
)

// ErrPlanningInProgress is returned when another run holds the lock for the same date.
var ErrPlanningInProgress = errors.New("planning already in progress for this date")

const (
	modeAssigned   = "assigned"
	modeUnassigned = "unassigned"
)

// PlanningDeps groups the ports a planning run needs.
type PlanningDeps struct {
	Orders   ports.OrderRepository
	Catalog  ports.CatalogRepository
	Vehicles ports.VehicleRepository
	Sink     ports.PlanSink
	Locker   ports.PlanLocker
	Distance ports.DistanceProvider

	LockTTL time.Duration
}

type AssignmentInput struct {
	VehicleID string
	DriverID  string
}

type PlanDeliveriesRequest struct {
	Date                 time.Time
	Depot                domain.Coordinates
	RegionSplitLongitude float64
	Assignments          []AssignmentInput
	DryRun               bool
}

type PlanUnassignedDeliveriesRequest struct {
	Date                 time.Time
	Depot                domain.Coordinates
	DefaultCapacity      float64
	RegionSplitLongitude float64
	DryRun               bool
}

// PlanDeliveries plans one trip per assigned vehicle for the pending orders
// of a delivery date and, unless DryRun is set, persists the result.
func PlanDeliveries(ctx context.Context, req PlanDeliveriesRequest, deps PlanningDeps) (res *domain.PlanResult, err error) {
	defer obs.Time(ctx, "plans.PlanDeliveries")(&err)
	defer func() { recordRun(modeAssigned, err) }()

	if len(req.Assignments) == 0 {
		return nil, fmt.Errorf("plan deliveries: %w", domain.ErrNoVehicleAssignments)
	}

	release, err := acquire(ctx, deps, req.Date)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	defer release()

	orders, catalog, err := loadInputs(ctx, deps, req.Date)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	ids := make([]string, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		ids = append(ids, a.VehicleID)
	}
	vehicles, err := deps.Vehicles.GetVehicles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: get vehicles: %w", err)
	}
	if len(vehicles) != len(ids) {
		return nil, fmt.Errorf("plan deliveries: got %d vehicles for %d assignments: %w",
			len(vehicles), len(ids), ports.ErrVehicleNotFound)
	}

	assignments := make([]domain.VehicleAssignment, 0, len(vehicles))
	for i, v := range vehicles {
		assignments = append(assignments, domain.VehicleAssignment{Vehicle: v, DriverID: req.Assignments[i].DriverID})
	}

	res, err = PlanRoutes(PlanRoutesRequest{
		Orders:               orders,
		Assignments:          assignments,
		Catalog:              catalog,
		Depot:                req.Depot,
		RegionSplitLongitude: req.RegionSplitLongitude,
		Date:                 req.Date,
	}, deps.Distance)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	assignIDs(res.Plans)

	if !req.DryRun {
		if err := deps.Sink.SavePlans(ctx, res.Plans); err != nil {
			return nil, fmt.Errorf("plan deliveries: save plans: %w", err)
		}
	}

	capacity := make(map[string]float64, len(vehicles))
	for _, v := range vehicles {
		capacity[v.ID] = v.Capacity
	}
	for _, p := range res.Plans {
		obs.PlannedStops.WithLabelValues(modeAssigned).Add(float64(len(p.Stops)))
		if p.VehicleID != nil && capacity[*p.VehicleID] > 0 {
			obs.TripUtilization.Observe(p.Demand / capacity[*p.VehicleID])
		}
	}
	obs.UnroutedOrders.Add(float64(len(res.Unrouted)))

	return res, nil
}

// PlanUnassignedDeliveries plans trips for every pending order of a delivery
// date with a uniform capacity and no vehicle attached.
func PlanUnassignedDeliveries(ctx context.Context, req PlanUnassignedDeliveriesRequest, deps PlanningDeps) (plans []*domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plans.PlanUnassignedDeliveries")(&err)
	defer func() { recordRun(modeUnassigned, err) }()

	release, err := acquire(ctx, deps, req.Date)
	if err != nil {
		return nil, fmt.Errorf("plan unassigned deliveries: %w", err)
	}
	defer release()

	orders, catalog, err := loadInputs(ctx, deps, req.Date)
	if err != nil {
		return nil, fmt.Errorf("plan unassigned deliveries: %w", err)
	}

	plans, err = PlanUnassignedRoutes(PlanUnassignedRequest{
		Orders:               orders,
		Catalog:              catalog,
		Depot:                req.Depot,
		DefaultCapacity:      req.DefaultCapacity,
		RegionSplitLongitude: req.RegionSplitLongitude,
		Date:                 req.Date,
	}, deps.Distance)
	if err != nil {
		return nil, fmt.Errorf("plan unassigned deliveries: %w", err)
	}

	assignIDs(plans)

	// Unassigned plans carry no vehicle, so nothing is marked Routed.
	if !req.DryRun {
		if err := deps.Sink.SavePlans(ctx, plans); err != nil {
			return nil, fmt.Errorf("plan unassigned deliveries: save plans: %w", err)
		}
	}

	for _, p := range plans {
		obs.PlannedStops.WithLabelValues(modeUnassigned).Add(float64(len(p.Stops)))
		obs.TripUtilization.Observe(p.Demand / req.DefaultCapacity)
	}

	return plans, nil
}

// LockKey is the planning lock key for a delivery date.
func LockKey(date time.Time) string {
	return "plan:" + date.Format(time.DateOnly)
}

func acquire(ctx context.Context, deps PlanningDeps, date time.Time) (func(), error) {
	ttl := deps.LockTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	release, err := deps.Locker.Acquire(ctx, LockKey(date), ttl)
	if errors.Is(err, ports.ErrLockHeld) {
		return nil, fmt.Errorf("date %s: %w", date.Format(time.DateOnly), ErrPlanningInProgress)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return release, nil
}

func loadInputs(ctx context.Context, deps PlanningDeps, date time.Time) ([]domain.Order, domain.ProductCatalog, error) {
	orders, err := deps.Orders.ListRoutableOrders(ctx, date)
	if err != nil {
		return nil, nil, fmt.Errorf("list routable orders: %w", err)
	}

	products, err := deps.Catalog.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list products: %w", err)
	}

	return orders, domain.NewProductCatalog(products), nil
}

func assignIDs(plans []*domain.RoutePlan) {
	for _, p := range plans {
		p.ID = uuid.NewString()
	}
}

func recordRun(mode string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	obs.PlanningRuns.WithLabelValues(mode, outcome).Inc()
}
