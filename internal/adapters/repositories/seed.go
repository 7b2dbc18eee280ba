package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

type StoreSeed struct {
	StoreID string   `json:"store_id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type ProductSeed struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	CapacityFactor float64 `json:"capacity_factor"`
}

type VehicleSeed struct {
	VehicleID string  `json:"vehicle_id"`
	Capacity  float64 `json:"capacity"`
}

type OrderItemSeed struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderSeed struct {
	OrderID             string          `json:"order_id"`
	StoreID             string          `json:"store_id"`
	DesiredDeliveryDate string          `json:"desired_delivery_date"`
	Priority            bool            `json:"priority"`
	Items               []OrderItemSeed `json:"items"`
}

// Seed is the JSON document loaded by SeedFromJSON.
type Seed struct {
	Stores   []StoreSeed   `json:"stores"`
	Products []ProductSeed `json:"products"`
	Vehicles []VehicleSeed `json:"vehicles"`
	Orders   []OrderSeed   `json:"orders"`
}

// ParseSeed decodes and checks a seed document.
//
// Only structural problems are rejected here. Order contents such as unknown
// products or missing coordinates are stored as-is and reported when planning.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	stores := make(map[string]struct{}, len(s.Stores))
	for i, st := range s.Stores {
		id := strings.TrimSpace(st.StoreID)
		if id == "" {
			return nil, fmt.Errorf("parse seed: store at index %d: store_id cannot be empty", i+1)
		}
		if (st.Lat == nil) != (st.Lon == nil) {
			return nil, fmt.Errorf("parse seed: store %q: lat and lon must be set together", id)
		}
		s.Stores[i].StoreID = id
		stores[id] = struct{}{}
	}

	for i, p := range s.Products {
		if strings.TrimSpace(p.ProductID) == "" {
			return nil, fmt.Errorf("parse seed: product at index %d: product_id cannot be empty", i+1)
		}
		if p.CapacityFactor <= 0 {
			return nil, fmt.Errorf("parse seed: product %q: capacity_factor must be positive", p.ProductID)
		}
	}

	for i, v := range s.Vehicles {
		if strings.TrimSpace(v.VehicleID) == "" {
			return nil, fmt.Errorf("parse seed: vehicle at index %d: vehicle_id cannot be empty", i+1)
		}
		if v.Capacity <= 0 {
			return nil, fmt.Errorf("parse seed: vehicle %q: capacity must be positive", v.VehicleID)
		}
	}

	for i, o := range s.Orders {
		if strings.TrimSpace(o.OrderID) == "" {
			return nil, fmt.Errorf("parse seed: order at index %d: order_id cannot be empty", i+1)
		}
		if _, ok := stores[strings.TrimSpace(o.StoreID)]; !ok {
			return nil, fmt.Errorf("parse seed: order %q: unknown store %q", o.OrderID, o.StoreID)
		}
		if _, err := time.Parse(time.DateOnly, o.DesiredDeliveryDate); err != nil {
			return nil, fmt.Errorf("parse seed: order %q: desired_delivery_date: %w", o.OrderID, err)
		}
	}

	return &s, nil
}

// Populate the database with stores, products, vehicles and orders from a JSON file.
//
// Reference data is upserted. Existing orders keep their status and vehicle
// assignment; their items are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	s, err := ParseSeed(bytes)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range s.Stores {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO stores (store_id, name, address, lat, lon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (store_id) DO UPDATE
		SET name = EXCLUDED.name,
			address = EXCLUDED.address,
			lat = COALESCE(EXCLUDED.lat, stores.lat),
			lon = COALESCE(EXCLUDED.lon, stores.lon);
		`, st.StoreID, st.Name, st.Address, st.Lat, st.Lon); err != nil {
			return fmt.Errorf("seed: insert store_id=%s: %w", st.StoreID, err)
		}
	}

	for _, p := range s.Products {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (product_id, name, capacity_factor)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		SET name = EXCLUDED.name,
			capacity_factor = EXCLUDED.capacity_factor;
		`, p.ProductID, p.Name, p.CapacityFactor); err != nil {
			return fmt.Errorf("seed: insert product_id=%s: %w", p.ProductID, err)
		}
	}

	for _, v := range s.Vehicles {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO vehicles (vehicle_id, capacity)
		VALUES ($1, $2)
		ON CONFLICT (vehicle_id) DO UPDATE
		SET capacity = EXCLUDED.capacity;
		`, v.VehicleID, v.Capacity); err != nil {
			return fmt.Errorf("seed: insert vehicle_id=%s: %w", v.VehicleID, err)
		}
	}

	itemStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_items (order_id, line, product_id, quantity)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare order item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, o := range s.Orders {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, store_id, desired_delivery_date, priority)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (order_id) DO UPDATE
		SET store_id = EXCLUDED.store_id,
			desired_delivery_date = EXCLUDED.desired_delivery_date,
			priority = EXCLUDED.priority;
		`, o.OrderID, strings.TrimSpace(o.StoreID), o.DesiredDeliveryDate, o.Priority); err != nil {
			return fmt.Errorf("seed: insert order_id=%s: %w", o.OrderID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1;`, o.OrderID); err != nil {
			return fmt.Errorf("seed: clear items order_id=%s: %w", o.OrderID, err)
		}

		for line, it := range o.Items {
			if _, err := itemStmt.ExecContext(ctx, o.OrderID, line+1, it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("seed: insert item order_id=%s line=%d: %w", o.OrderID, line+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
