package api

import (
	"net/http"
	"store-route-planner/internal/api/handlers"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Planning services.PlanningDeps
	Defaults handlers.PlanDefaults
	// DB is probed by /health when set.
	DB handlers.Pinger

	PlanRatePerSec float64
	PlanBurst      int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	obs.RegisterDefault()

	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: d.DB}
	orders := &handlers.OrderHandler{Repo: d.Planning.Orders}
	plans := &handlers.PlanHandler{Deps: d.Planning, Defaults: d.Defaults}
	capacity := &handlers.CapacityHandler{Catalog: d.Planning.Catalog}

	// Both planning endpoints share one bucket.
	burst := max(d.PlanBurst, 1)
	limiter := rate.NewLimiter(rate.Limit(d.PlanRatePerSec), burst)

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/orders", orders.List)
	mux.HandleFunc("/plans", rateLimit(limiter, plans.Plan))
	mux.HandleFunc("/plans/unassigned", rateLimit(limiter, plans.PlanUnassigned))
	mux.HandleFunc("/capacity", capacity.Calculate)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	routes := map[string]struct{}{
		"/health": {}, "/orders": {}, "/plans": {}, "/plans/unassigned": {}, "/capacity": {}, "/metrics": {},
	}

	return requestIDMiddleware(loggingMiddleware(routes, mux))
}
