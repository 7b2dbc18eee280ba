package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
)

// PostgresStoreRepository reads and updates store coordinates.
type PostgresStoreRepository struct{ DB *sql.DB }

func NewPostgresStoreRepository(db *sql.DB) *PostgresStoreRepository {
	return &PostgresStoreRepository{DB: db}
}

// Return stores that have an address but no coordinates.
func (r *PostgresStoreRepository) ListUnlocatedStores(ctx context.Context) (_ []domain.Store, err error) {
	defer obs.Time(ctx, "stores.ListUnlocated")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres store repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT store_id, name, address
	FROM stores
	WHERE (lat IS NULL OR lon IS NULL) AND address <> ''
	ORDER BY store_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list unlocated stores: query stores table: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 16)
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address); err != nil {
			return nil, fmt.Errorf("list unlocated stores: scan row: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unlocated stores: row iteration: %w", err)
	}

	return stores, nil
}

// Store coordinates keyed by store ID.
func (r *PostgresStoreRepository) SetLocations(ctx context.Context, locs map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "stores.SetLocations")(&err)

	if r.DB == nil {
		return errors.New("postgres store repository: DB is nil")
	}
	if len(locs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set store locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE stores SET lat = $2, lon = $3 WHERE store_id = $1;`)
	if err != nil {
		return fmt.Errorf("set store locations: prepare: %w", err)
	}
	defer stmt.Close()

	for id, c := range locs {
		if _, err := stmt.ExecContext(ctx, id, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("set store locations: store_id=%s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set store locations: commit tx: %w", err)
	}
	return nil
}
