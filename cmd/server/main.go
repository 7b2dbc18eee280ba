package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"store-route-planner/internal/adapters/distance"
	"store-route-planner/internal/adapters/lock"
	"store-route-planner/internal/adapters/repositories"
	"store-route-planner/internal/api"
	"store-route-planner/internal/api/handlers"
	"store-route-planner/internal/config"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/db"
	"store-route-planner/internal/ports"
	"store-route-planner/internal/services"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema creation is idempotent; seeding is left to dbtool.
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	locker, closeLocker, err := newLocker(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLocker()

	catalog := repositories.NewPostgresCatalogRepository(conn)
	router := api.NewRouter(api.Deps{
		Planning: services.PlanningDeps{
			Orders:   repositories.NewPostgresOrderRepository(conn),
			Catalog:  catalog,
			Vehicles: catalog,
			Sink:     repositories.NewPostgresPlanSink(conn),
			Locker:   locker,
			Distance: distance.NewHaversineProvider(),
			LockTTL:  cfg.PlanLockTTL,
		},
		Defaults: handlers.PlanDefaults{
			Depot:                domain.Coordinates{Lat: cfg.Depot.Lat, Lon: cfg.Depot.Lon},
			RegionSplitLongitude: cfg.SplitLongitude(),
			DefaultCapacity:      cfg.DefaultCapacity,
		},
		DB:             conn,
		PlanRatePerSec: cfg.PlanRatePerSec,
		PlanBurst:      cfg.PlanRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening addr=:%s depot=%v,%v split_lon=%v", cfg.Port, cfg.Depot.Lat, cfg.Depot.Lon, cfg.SplitLongitude())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Println("Shutting down...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

// newLocker prefers Redis so several instances share planning locks.
func newLocker(ctx context.Context, redisURL string) (ports.PlanLocker, func(), error) {
	if strings.TrimSpace(redisURL) == "" {
		log.Println("REDIS_URL not set, planning locks are process-local")
		return lock.NewMemoryLocker(), func() {}, nil
	}

	l, err := lock.NewRedisLocker(redisURL)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := l.Ping(pingCtx); err != nil {
		_ = l.Close()
		return nil, nil, err
	}

	return l, func() { _ = l.Close() }, nil
}
