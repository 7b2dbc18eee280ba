package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/ports"
)

// Postgres-backed implementation of the CatalogRepository and VehicleRepository ports.
type PostgresCatalogRepository struct{ DB *sql.DB }

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

func (r *PostgresCatalogRepository) ListProducts(ctx context.Context) (_ []domain.Product, err error) {
	defer obs.Time(ctx, "catalog.ListProducts")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres catalog repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT product_id, name, capacity_factor
	FROM products
	ORDER BY product_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: query products table: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 16)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CapacityFactor); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}

	return products, nil
}

// Return the vehicles for ids in the same order. A vehicle listed twice is
// returned twice.
func (r *PostgresCatalogRepository) GetVehicles(ctx context.Context, ids []string) (_ []domain.Vehicle, err error) {
	defer obs.Time(ctx, "catalog.GetVehicles")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres catalog repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT vehicle_id, capacity
	FROM vehicles
	WHERE vehicle_id = ANY($1::text[]);
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.Vehicle, len(ids))
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Capacity); err != nil {
			return nil, fmt.Errorf("get vehicles: scan row: %w", err)
		}
		byID[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get vehicles: row iteration: %w", err)
	}

	vehicles := make([]domain.Vehicle, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("get vehicles: vehicle_id=%q: %w", id, ports.ErrVehicleNotFound)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}
