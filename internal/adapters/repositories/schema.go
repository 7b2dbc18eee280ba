package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS stores (
		store_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		capacity_factor DOUBLE PRECISION NOT NULL CHECK (capacity_factor > 0)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id TEXT PRIMARY KEY,
		capacity DOUBLE PRECISION NOT NULL CHECK (capacity > 0)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores (store_id),
		desired_delivery_date DATE NOT NULL,
		priority BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'Pending',
		assigned_vehicle_id TEXT REFERENCES vehicles (vehicle_id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL REFERENCES orders (order_id) ON DELETE CASCADE,
		line INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (order_id, line)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_plans (
		plan_id UUID PRIMARY KEY,
		vehicle_id TEXT REFERENCES vehicles (vehicle_id),
		driver_id TEXT,
		plan_date DATE NOT NULL,
		region TEXT NOT NULL,
		demand DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_stops (
		plan_id UUID NOT NULL REFERENCES route_plans (plan_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		order_id TEXT NOT NULL REFERENCES orders (order_id),
		store_id TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (plan_id, seq)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_orders_date_status
	ON orders (desired_delivery_date, status);
	`,
}

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
