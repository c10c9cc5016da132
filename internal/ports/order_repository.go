package ports

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
)

// ErrNoOrderSource reports that a repository has no orders to offer, so the
// caller may fall through to the next source.
var ErrNoOrderSource = errors.New("no order source available")

// Port: a boundary for retrieving the current transport orders.
type OrderRepository interface {
	// Return the orders in table order. Implementations return a fresh
	// slice the caller may modify.
	ListOrders(ctx context.Context) (domain.OrderSet, error)
}
