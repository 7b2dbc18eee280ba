package domain

import "time"

// Region is the East/West partition key around the depot longitude.
type Region string

const (
	RegionEast Region = "East"
	RegionWest Region = "West"
)

// RegionOrder fixes the iteration order over regions.
var RegionOrder = []Region{RegionEast, RegionWest}

// DemandNode aggregates every order of one store within a planning pass.
type DemandNode struct {
	ID       string
	Location Coordinates
	Demand   float64
	Priority bool
	OrderIDs []string
}

// Trip is an ordered sequence of store IDs starting and ending at the depot.
type Trip struct {
	NodeIDs    []string
	Demand     float64
	DistanceKm float64
}

// Represents a single stop in a delivery route.
// There is one stop per order; a store with several orders yields
// consecutive stops.
type Stop struct {
	Seq      int
	OrderID  string
	StoreID  string
	Location Coordinates
}

// Represents the planned delivery route for a single vehicle trip.
// A RoutePlan is the output of the planning core. VehicleID and DriverID are
// nil for plans produced without vehicle assignments. ID is assigned when the
// plan is persisted.
type RoutePlan struct {
	ID         string
	VehicleID  *string
	DriverID   *string
	Date       time.Time
	Region     Region
	Stops      []Stop
	Demand     float64
	DistanceKm float64
}

// OrderIDs returns the orders served by the plan in stop order.
func (p *RoutePlan) OrderIDs() []string {
	ids := make([]string, 0, len(p.Stops))
	for _, s := range p.Stops {
		ids = append(ids, s.OrderID)
	}
	return ids
}

// PlanResult is the outcome of a multi-vehicle planning call.
// Unrouted lists valid orders left over once every vehicle was used.
type PlanResult struct {
	Plans    []*RoutePlan
	Unrouted []string
}
