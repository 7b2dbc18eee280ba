package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OperationDuration records obs.Time spans.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Duration of timed internal operations.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)

	// PlanningRuns counts planning calls by mode (assigned, unassigned) and outcome.
	PlanningRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_planning_runs_total", Help: "Route planning runs by mode and outcome."},
		[]string{"mode", "outcome"},
	)
	// PlannedStops counts order stops placed into route plans.
	PlannedStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_planned_stops_total", Help: "Order stops placed into route plans."},
		[]string{"mode"},
	)
	// UnroutedOrders counts valid orders left without a vehicle.
	UnroutedOrders = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_unrouted_orders_total", Help: "Valid orders left over after all vehicles were filled."},
	)
	// TripUtilization tracks trip demand as a fraction of vehicle capacity.
	TripUtilization = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_trip_utilization_ratio", Help: "Trip demand divided by vehicle capacity.", Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1}},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OperationDuration)
		Registry.MustRegister(PlanningRuns)
		Registry.MustRegister(PlannedStops)
		Registry.MustRegister(UnroutedOrders)
		Registry.MustRegister(TripUtilization)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
