package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"store-route-planner/internal/adapters/cache"
	"store-route-planner/internal/adapters/geocode"
	"store-route-planner/internal/adapters/repositories"
	"store-route-planner/internal/config"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/db"
	"store-route-planner/internal/ports"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	skipSeed := flag.Bool("skip-seed", false, "only create the schema and geocode stores")
	skipGeocode := flag.Bool("skip-geocode", false, "do not geocode stores without coordinates")
	flag.Parse()

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

	ctx := context.Background()

	seedPath := ""
	if !*skipSeed {
		seedPath = cfg.SeedPath
	}
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.Fatal(err)
	}

	if *skipGeocode {
		return
	}
	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		log.Println("ORS_API_KEY not set, skipping store geocoding")
		return
	}

	geocoder, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, cache.NewSQLGeocodeCache(conn))
	if err != nil {
		log.Fatal(err)
	}
	if err := locateStores(ctx, repositories.NewPostgresStoreRepository(conn), geocoder); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}

// locateStores fills in coordinates for stores seeded with only an address.
func locateStores(ctx context.Context, stores *repositories.PostgresStoreRepository, geocoder ports.Geocoder) error {
	pending, err := stores.ListUnlocatedStores(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Println("All stores have coordinates.")
		return nil
	}

	addresses := make([]string, 0, len(pending))
	for _, s := range pending {
		addresses = append(addresses, s.Address)
	}

	log.Printf("Geocoding %d stores...", len(pending))
	found, err := geocoder.Geocode(ctx, addresses)
	if err != nil {
		return fmt.Errorf("geocode stores: %w", err)
	}

	locs := make(map[string]domain.Coordinates, len(pending))
	for _, s := range pending {
		if c, ok := found[geocode.Normalize(s.Address)]; ok {
			locs[s.ID] = c
		}
	}

	if err := stores.SetLocations(ctx, locs); err != nil {
		return err
	}
	log.Printf("Geocoded %d of %d stores.", len(locs), len(pending))

	return nil
}
