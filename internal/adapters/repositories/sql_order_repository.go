package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
)

// SQL-backed implementation of the OrderRepository port.
type SQLOrderRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLOrderRepository(db *sql.DB, driver string) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db, Driver: driver}
}

// Return all orders in order_id order. An empty table is reported as
// ports.ErrNoOrderSource.
func (s *SQLOrderRepository) ListOrders(ctx context.Context) (_ domain.OrderSet, err error) {
	defer obs.Time(ctx, "orders.sql.ListOrders")(&err)

	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	query := `
	SELECT
		pickup_location,
		delivery_location,
		order_demand,
		earliest_pickup,
		latest_pickup,
		pickup_service_time,
		earliest_delivery,
		latest_delivery,
		delivery_service_time
	FROM transport_orders
	ORDER BY order_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query transport_orders table: %w", err)
	}
	defer rows.Close()

	orders := make(domain.OrderSet, 0, 16)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.PickupLocation,
			&o.DeliveryLocation,
			&o.OrderDemand,
			&o.EarliestPickup,
			&o.LatestPickup,
			&o.PickupServiceTime,
			&o.EarliestDelivery,
			&o.LatestDelivery,
			&o.DeliveryServiceTime,
		)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("list orders: transport_orders is empty: %w", ports.ErrNoOrderSource)
	}

	return orders, nil
}
