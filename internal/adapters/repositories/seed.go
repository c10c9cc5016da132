package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/db"
	"os"
	"path/filepath"
	"strings"
)

// SeedFromFile replaces the order table with the rows of a CSV or JSON file,
// chosen by extension.
func SeedFromFile(ctx context.Context, conn *sql.DB, driver string, path string) (int, error) {
	var (
		orders domain.OrderSet
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		orders, err = readOrdersJSON(path)
	case ".csv":
		orders, err = ReadOrdersCSVFile(path)
	default:
		return 0, fmt.Errorf("seed orders: unsupported file type %q", path)
	}
	if err != nil {
		return 0, fmt.Errorf("seed orders: %w", err)
	}

	if err := ReplaceOrders(ctx, conn, driver, orders); err != nil {
		return 0, err
	}
	return len(orders), nil
}

func readOrdersJSON(path string) (domain.OrderSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var orders domain.OrderSet
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("invalid order at index %d: %w", i, err)
		}
	}
	return orders, nil
}

// ReplaceOrders overwrites the order table with orders in a single
// transaction. Positions become order ids.
func ReplaceOrders(ctx context.Context, conn *sql.DB, driver string, orders domain.OrderSet) error {
	if conn == nil {
		return errors.New("seed orders: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transport_orders;`); err != nil {
		return fmt.Errorf("seed orders: clear table: %w", err)
	}

	query := `
	INSERT INTO transport_orders (
		order_id,
		pickup_location,
		delivery_location,
		order_demand,
		earliest_pickup,
		latest_pickup,
		pickup_service_time,
		earliest_delivery,
		latest_delivery,
		delivery_service_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, db.Rebind(driver, query))
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range orders {
		args := make([]any, 0, 1+len(domain.OrderColumns))
		args = append(args, i)
		for _, v := range o.Values() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("seed orders: insert order_id=%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}
