package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"time"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

const selectOrders = `
	SELECT
		o.order_id,
		o.store_id,
		s.lat,
		s.lon,
		o.desired_delivery_date,
		o.priority,
		o.status,
		o.assigned_vehicle_id
	FROM orders o
	JOIN stores s ON s.store_id = o.store_id
	`

// Return pending orders for the delivery date in creation order.
func (r *PostgresOrderRepository) ListRoutableOrders(ctx context.Context, date time.Time) (_ []domain.Order, err error) {
	defer obs.Time(ctx, "orders.ListRoutable")(&err)

	query := selectOrders + `
	WHERE o.status = $1 AND o.desired_delivery_date = $2::date
	ORDER BY o.created_at, o.order_id;
	`
	return r.list(ctx, query, domain.OrderStatusPending, date.Format(time.DateOnly))
}

// Return every order in creation order.
func (r *PostgresOrderRepository) ListOrders(ctx context.Context) (_ []domain.Order, err error) {
	defer obs.Time(ctx, "orders.List")(&err)

	return r.list(ctx, selectOrders+`
	ORDER BY o.desired_delivery_date, o.created_at, o.order_id;
	`)
}

func (r *PostgresOrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("postgres order repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 64)
	for rows.Next() {
		var (
			o        domain.Order
			lat, lon sql.NullFloat64
			vehicle  sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.StoreID, &lat, &lon, &o.DesiredDeliveryDate, &o.Priority, &o.Status, &vehicle); err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		if lat.Valid && lon.Valid {
			o.Location = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		if vehicle.Valid {
			v := vehicle.String
			o.AssignedVehicleID = &v
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *PostgresOrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT order_id, product_id, quantity
	FROM order_items
	WHERE order_id = ANY($1::text[])
	ORDER BY order_id, line;
	`, ids)
	if err != nil {
		return fmt.Errorf("list orders: query order_items table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      domain.OrderItem
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity); err != nil {
			return fmt.Errorf("list orders: scan item row: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list orders: item row iteration: %w", err)
	}

	return nil
}
