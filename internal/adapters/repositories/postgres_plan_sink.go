package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/ports"
	"time"
)

// Postgres-backed implementation of the PlanSink port.
type PostgresPlanSink struct{ DB *sql.DB }

func NewPostgresPlanSink(db *sql.DB) *PostgresPlanSink {
	return &PostgresPlanSink{DB: db}
}

// SavePlans writes plans and stops in one transaction. Orders on plans with a
// vehicle are marked Routed; plans without a vehicle leave orders Pending and
// replace the unassigned plans already stored for their date.
func (s *PostgresPlanSink) SavePlans(ctx context.Context, plans []*domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "plans.Save")(&err)

	if s.DB == nil {
		return errors.New("postgres plan sink: DB is nil")
	}
	if len(plans) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plans: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceUnassigned(ctx, tx, plans); err != nil {
		return err
	}

	planStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_plans (plan_id, vehicle_id, driver_id, plan_date, region, demand, distance_km)
	VALUES ($1::uuid, $2, $3, $4::date, $5, $6, $7);
	`)
	if err != nil {
		return fmt.Errorf("save plans: prepare plan insert: %w", err)
	}
	defer planStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (plan_id, seq, order_id, store_id, lat, lon)
	VALUES ($1::uuid, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("save plans: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	routeStmt, err := tx.PrepareContext(ctx, `
	UPDATE orders
	SET status = $1, assigned_vehicle_id = $2
	WHERE order_id = $3 AND status = $4;
	`)
	if err != nil {
		return fmt.Errorf("save plans: prepare order update: %w", err)
	}
	defer routeStmt.Close()

	for _, p := range plans {
		if p.ID == "" {
			return fmt.Errorf("save plans: plan without id")
		}

		if _, err := planStmt.ExecContext(ctx, p.ID, p.VehicleID, p.DriverID,
			p.Date.Format(time.DateOnly), string(p.Region), p.Demand, p.DistanceKm); err != nil {
			return fmt.Errorf("save plans: insert plan_id=%s: %w", p.ID, err)
		}

		for _, st := range p.Stops {
			if _, err := stopStmt.ExecContext(ctx, p.ID, st.Seq, st.OrderID, st.StoreID,
				st.Location.Lat, st.Location.Lon); err != nil {
				return fmt.Errorf("save plans: insert stop plan_id=%s seq=%d: %w", p.ID, st.Seq, err)
			}

			if p.VehicleID == nil {
				continue
			}

			res, err := routeStmt.ExecContext(ctx, domain.OrderStatusRouted, *p.VehicleID,
				st.OrderID, domain.OrderStatusPending)
			if err != nil {
				return fmt.Errorf("save plans: route order_id=%s: %w", st.OrderID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("save plans: route order_id=%s: rows affected: %w", st.OrderID, err)
			}
			if n != 1 {
				return fmt.Errorf("save plans: order_id=%s: %w", st.OrderID, ports.ErrOrderNotPending)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plans: commit tx: %w", err)
	}

	return nil
}

// replaceUnassigned drops earlier vehicle-less plans for every date that gets
// new ones. Their stops go with them through ON DELETE CASCADE.
func replaceUnassigned(ctx context.Context, tx *sql.Tx, plans []*domain.RoutePlan) error {
	dates := map[string]struct{}{}
	for _, p := range plans {
		if p.VehicleID == nil {
			dates[p.Date.Format(time.DateOnly)] = struct{}{}
		}
	}

	for d := range dates {
		if _, err := tx.ExecContext(ctx, `
		DELETE FROM route_plans
		WHERE vehicle_id IS NULL AND plan_date = $1::date;
		`, d); err != nil {
			return fmt.Errorf("save plans: replace unassigned plans date=%s: %w", d, err)
		}
	}
	return nil
}
