package handlers

import (
	"fmt"
	"net/http"
	"store-route-planner/internal/api/dto"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/services"
	"strings"
	"time"
)

// PlanDefaults fill in optional request fields.
type PlanDefaults struct {
	Depot                domain.Coordinates
	RegionSplitLongitude float64
	DefaultCapacity      float64
}

type PlanHandler struct {
	Deps     services.PlanningDeps
	Defaults PlanDefaults
}

// Plan assigns one trip per listed vehicle for the pending orders of a date.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, ok := parseDate(w, r, req.Date)
	if !ok {
		return
	}

	assignments := make([]services.AssignmentInput, 0, len(req.Assignments))
	for i, a := range req.Assignments {
		id := strings.TrimSpace(a.VehicleID)
		if id == "" {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("assignments[%d].vehicle_id is required", i))
			return
		}
		assignments = append(assignments, services.AssignmentInput{VehicleID: id, DriverID: strings.TrimSpace(a.DriverID)})
	}

	svcReq := services.PlanDeliveriesRequest{
		Date:                 date,
		Depot:                h.depot(req.Depot),
		RegionSplitLongitude: h.split(req.RegionSplitLongitude),
		Assignments:          assignments,
		DryRun:               req.DryRun,
	}

	result, err := services.PlanDeliveries(r.Context(), svcReq, h.Deps)
	if err != nil {
		writeServiceError(w, r, "plans.Plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toListPlanResponse(result.Plans, result.Unrouted, req.DryRun))
}

// PlanUnassigned plans trips for every pending order of a date with a uniform
// capacity and no vehicles.
func (h *PlanHandler) PlanUnassigned(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.UnassignedPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, ok := parseDate(w, r, req.Date)
	if !ok {
		return
	}

	capacity := h.Defaults.DefaultCapacity
	if req.DefaultCapacity != nil {
		capacity = *req.DefaultCapacity
	}

	svcReq := services.PlanUnassignedDeliveriesRequest{
		Date:                 date,
		Depot:                h.depot(req.Depot),
		DefaultCapacity:      capacity,
		RegionSplitLongitude: h.split(req.RegionSplitLongitude),
		DryRun:               req.DryRun,
	}

	plans, err := services.PlanUnassignedDeliveries(r.Context(), svcReq, h.Deps)
	if err != nil {
		writeServiceError(w, r, "plans.PlanUnassigned", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toListPlanResponse(plans, nil, req.DryRun))
}

func (h *PlanHandler) depot(c *dto.Coordinates) domain.Coordinates {
	if c == nil {
		return h.Defaults.Depot
	}
	return domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func (h *PlanHandler) split(lon *float64) float64 {
	if lon == nil {
		return h.Defaults.RegionSplitLongitude
	}
	return *lon
}

func parseDate(w http.ResponseWriter, r *http.Request, s string) (time.Time, bool) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func toListPlanResponse(plans []*domain.RoutePlan, unrouted []string, dryRun bool) dto.ListPlanResponse {
	res := dto.ListPlanResponse{
		Plans:    make([]dto.PlanResponse, 0, len(plans)),
		Unrouted: []string{},
		DryRun:   dryRun,
	}
	res.Unrouted = append(res.Unrouted, unrouted...)

	for _, p := range plans {
		stops := make([]dto.PlanStopResponse, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, dto.PlanStopResponse{
				Seq:     s.Seq,
				OrderID: s.OrderID,
				StoreID: s.StoreID,
				Lat:     s.Location.Lat,
				Lon:     s.Location.Lon,
			})
		}

		res.Plans = append(res.Plans, dto.PlanResponse{
			PlanID:     p.ID,
			VehicleID:  p.VehicleID,
			DriverID:   p.DriverID,
			Date:       p.Date.Format(time.DateOnly),
			Region:     string(p.Region),
			Demand:     p.Demand,
			DistanceKm: p.DistanceKm,
			Stops:      stops,
		})
	}

	return res
}
