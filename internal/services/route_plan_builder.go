package services

import (
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/ports"
	"time"
)

type PlanRoutesRequest struct {
	Orders               []domain.Order
	Assignments          []domain.VehicleAssignment
	Catalog              domain.ProductCatalog
	Depot                domain.Coordinates
	RegionSplitLongitude float64
	Date                 time.Time
}

type PlanUnassignedRequest struct {
	Orders               []domain.Order
	Catalog              domain.ProductCatalog
	Depot                domain.Coordinates
	DefaultCapacity      float64
	RegionSplitLongitude float64
	Date                 time.Time
}

// BuildDemandNodes validates orders and aggregates them into one node per store.
//
// Nodes follow the first appearance of each store in orders, and OrderIDs keep
// the input order. Any invalid order fails the whole call.
func BuildDemandNodes(orders []domain.Order, catalog domain.ProductCatalog) ([]domain.DemandNode, error) {
	demand, err := validateOrders(orders, catalog)
	if err != nil {
		return nil, fmt.Errorf("build demand nodes: %w", err)
	}
	return groupNodes(orders, demand), nil
}

// PlanUnassignedRoutes plans trips for all orders with a uniform vehicle
// capacity and no vehicle or driver attached.
func PlanUnassignedRoutes(req PlanUnassignedRequest, dist ports.DistanceProvider) ([]*domain.RoutePlan, error) {
	if len(req.Orders) == 0 {
		return nil, fmt.Errorf("plan unassigned routes: %w", domain.ErrNoRoutableOrders)
	}
	if req.DefaultCapacity <= 0 {
		return nil, fmt.Errorf("plan unassigned routes: default capacity %v must be positive: %w",
			req.DefaultCapacity, domain.ErrInvalidCapacityInput)
	}

	demand, err := validateOrders(req.Orders, req.Catalog)
	if err != nil {
		return nil, fmt.Errorf("plan unassigned routes: %w", err)
	}

	nodes := groupNodes(req.Orders, demand)
	for _, n := range nodes {
		if n.Demand > req.DefaultCapacity+domain.CapacityTolerance {
			return nil, fmt.Errorf("plan unassigned routes: %w", &domain.NodeCapacityError{
				StoreID: n.ID, Demand: n.Demand, Capacity: req.DefaultCapacity,
			})
		}
	}

	exp := newExpander(req.Orders, nodes, req.Date)
	regions := ClassifyRegions(nodes, req.RegionSplitLongitude)

	plans := []*domain.RoutePlan{}
	for _, region := range domain.RegionOrder {
		trips, err := RunSavings(regions[region], req.Depot, req.DefaultCapacity, dist)
		if err != nil {
			return nil, fmt.Errorf("plan unassigned routes: region %s: %w", region, err)
		}
		for _, trip := range trips {
			plans = append(plans, exp.expand(trip, region, nil))
		}
	}

	return plans, nil
}

// PlanRoutes assigns one trip to each vehicle, in the order the assignments
// are given.
//
// Each vehicle plans against the orders the previous vehicles left behind:
// nodes and regions are rebuilt from the remaining pool, the savings router runs
// per region bounded by this vehicle's capacity, and the vehicle takes the trip
// with the largest demand. Processing order therefore shapes the result.
// Orders still in the pool once vehicles run out are returned as Unrouted.
func PlanRoutes(req PlanRoutesRequest, dist ports.DistanceProvider) (*domain.PlanResult, error) {
	if len(req.Orders) == 0 {
		return nil, fmt.Errorf("plan routes: %w", domain.ErrNoRoutableOrders)
	}
	if len(req.Assignments) == 0 {
		return nil, fmt.Errorf("plan routes: %w", domain.ErrNoVehicleAssignments)
	}

	maxCapacity := 0.0
	for _, a := range req.Assignments {
		if a.Vehicle.Capacity <= 0 {
			return nil, fmt.Errorf("plan routes: vehicle %q capacity %v must be positive: %w",
				a.Vehicle.ID, a.Vehicle.Capacity, domain.ErrInvalidCapacityInput)
		}
		maxCapacity = max(maxCapacity, a.Vehicle.Capacity)
	}

	demand, err := validateOrders(req.Orders, req.Catalog)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	for _, n := range groupNodes(req.Orders, demand) {
		if n.Demand > maxCapacity+domain.CapacityTolerance {
			return nil, fmt.Errorf("plan routes: no vehicle can carry store: %w", &domain.NodeCapacityError{
				StoreID: n.ID, Demand: n.Demand, Capacity: maxCapacity,
			})
		}
	}

	result := &domain.PlanResult{Plans: []*domain.RoutePlan{}, Unrouted: []string{}}
	pool := req.Orders
	for _, a := range req.Assignments {
		if len(pool) == 0 {
			break
		}

		plan, rest, err := planVehicle(pool, demand, a, req, dist)
		if err != nil {
			return nil, fmt.Errorf("plan routes: vehicle %q: %w", a.Vehicle.ID, err)
		}
		if plan != nil {
			result.Plans = append(result.Plans, plan)
		}
		pool = rest
	}

	for _, o := range pool {
		result.Unrouted = append(result.Unrouted, o.ID)
	}

	return result, nil
}

// planVehicle is one step of the vehicle fold. It never modifies pool; the
// returned slice holds the orders left for the next vehicle.
func planVehicle(
	pool []domain.Order,
	demand map[string]float64,
	a domain.VehicleAssignment,
	req PlanRoutesRequest,
	dist ports.DistanceProvider,
) (*domain.RoutePlan, []domain.Order, error) {
	nodes := groupNodes(pool, demand)

	fitting := make([]domain.DemandNode, 0, len(nodes))
	for _, n := range nodes {
		if a.Vehicle.Fits(n.Demand) {
			fitting = append(fitting, n)
		}
	}
	if len(fitting) == 0 {
		return nil, pool, nil
	}

	regions := ClassifyRegions(fitting, req.RegionSplitLongitude)

	var (
		best       *domain.Trip
		bestRegion domain.Region
	)
	for _, region := range domain.RegionOrder {
		trips, err := RunSavings(regions[region], req.Depot, a.Vehicle.Capacity, dist)
		if err != nil {
			return nil, nil, fmt.Errorf("region %s: %w", region, err)
		}
		for i := range trips {
			// Strictly greater keeps the first trip on ties.
			if best == nil || trips[i].Demand > best.Demand+domain.CapacityTolerance {
				best = &trips[i]
				bestRegion = region
			}
		}
	}
	if best == nil {
		return nil, pool, nil
	}

	exp := newExpander(pool, nodes, req.Date)
	plan := exp.expand(*best, bestRegion, &a)

	consumed := make(map[string]struct{}, len(plan.Stops))
	for _, s := range plan.Stops {
		consumed[s.OrderID] = struct{}{}
	}

	rest := make([]domain.Order, 0, len(pool)-len(consumed))
	for _, o := range pool {
		if _, ok := consumed[o.ID]; !ok {
			rest = append(rest, o)
		}
	}

	return plan, rest, nil
}

func validateOrders(orders []domain.Order, catalog domain.ProductCatalog) (map[string]float64, error) {
	demand := make(map[string]float64, len(orders))
	for _, o := range orders {
		if _, dup := demand[o.ID]; dup {
			return nil, &domain.OrderDataError{OrderID: o.ID, Reason: "duplicate order id"}
		}

		d, err := o.Validate(catalog)
		if err != nil {
			return nil, err
		}
		demand[o.ID] = d
	}
	return demand, nil
}

func groupNodes(orders []domain.Order, demand map[string]float64) []domain.DemandNode {
	index := make(map[string]int)
	nodes := make([]domain.DemandNode, 0)

	for _, o := range orders {
		i, ok := index[o.StoreID]
		if !ok {
			i = len(nodes)
			index[o.StoreID] = i
			nodes = append(nodes, domain.DemandNode{ID: o.StoreID, Location: *o.Location})
		}

		nodes[i].Demand += demand[o.ID]
		nodes[i].Priority = nodes[i].Priority || o.Priority
		nodes[i].OrderIDs = append(nodes[i].OrderIDs, o.ID)
	}

	return nodes
}

// expander turns store-level trips back into order-level stops.
type expander struct {
	orders map[string]domain.Order
	nodes  map[string]domain.DemandNode
	date   time.Time
}

func newExpander(orders []domain.Order, nodes []domain.DemandNode, date time.Time) *expander {
	e := &expander{
		orders: make(map[string]domain.Order, len(orders)),
		nodes:  make(map[string]domain.DemandNode, len(nodes)),
		date:   date,
	}
	for _, o := range orders {
		e.orders[o.ID] = o
	}
	for _, n := range nodes {
		e.nodes[n.ID] = n
	}
	return e
}

func (e *expander) expand(trip domain.Trip, region domain.Region, a *domain.VehicleAssignment) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		Date:       e.date,
		Region:     region,
		Stops:      []domain.Stop{},
		Demand:     trip.Demand,
		DistanceKm: trip.DistanceKm,
	}

	if a != nil {
		vehicleID := a.Vehicle.ID
		plan.VehicleID = &vehicleID
		if a.DriverID != "" {
			driverID := a.DriverID
			plan.DriverID = &driverID
		}
	}

	for _, storeID := range trip.NodeIDs {
		for _, orderID := range e.nodes[storeID].OrderIDs {
			o := e.orders[orderID]
			plan.Stops = append(plan.Stops, domain.Stop{
				Seq:      len(plan.Stops) + 1,
				OrderID:  o.ID,
				StoreID:  o.StoreID,
				Location: *o.Location,
			})
		}
	}

	return plan
}
