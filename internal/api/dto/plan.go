package dto

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type AssignmentRequest struct {
	VehicleID string `json:"vehicle_id"`
	DriverID  string `json:"driver_id"`
}

type PlanRequest struct {
	Date                 string              `json:"date"`
	Depot                *Coordinates        `json:"depot"`
	RegionSplitLongitude *float64            `json:"region_split_longitude"`
	Assignments          []AssignmentRequest `json:"assignments"`
	DryRun               bool                `json:"dry_run"`
}

type UnassignedPlanRequest struct {
	Date                 string       `json:"date"`
	Depot                *Coordinates `json:"depot"`
	DefaultCapacity      *float64     `json:"default_capacity"`
	RegionSplitLongitude *float64     `json:"region_split_longitude"`
	DryRun               bool         `json:"dry_run"`
}

type PlanStopResponse struct {
	Seq     int     `json:"seq"`
	OrderID string  `json:"order_id"`
	StoreID string  `json:"store_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type PlanResponse struct {
	PlanID     string             `json:"plan_id"`
	VehicleID  *string            `json:"vehicle_id"`
	DriverID   *string            `json:"driver_id"`
	Date       string             `json:"date"`
	Region     string             `json:"region"`
	Demand     float64            `json:"demand"`
	DistanceKm float64            `json:"distance_km"`
	Stops      []PlanStopResponse `json:"stops"`
}

type ListPlanResponse struct {
	Plans    []PlanResponse `json:"plans"`
	Unrouted []string       `json:"unrouted"`
	DryRun   bool           `json:"dry_run"`
}
