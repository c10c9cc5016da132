package repositories

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"log"
)

// FallbackOrderRepository tries each source in turn and falls back to the
// built-in dataset. Sources reporting ports.ErrNoOrderSource are skipped;
// any other error is returned.
type FallbackOrderRepository struct {
	Sources []ports.OrderRepository
}

func NewFallbackOrderRepository(sources ...ports.OrderRepository) *FallbackOrderRepository {
	return &FallbackOrderRepository{Sources: sources}
}

func (f *FallbackOrderRepository) ListOrders(ctx context.Context) (domain.OrderSet, error) {
	for _, src := range f.Sources {
		if src == nil {
			continue
		}
		orders, err := src.ListOrders(ctx)
		if errors.Is(err, ports.ErrNoOrderSource) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return orders, nil
	}

	log.Printf("req_id=%s orders: using built-in dataset", obs.RequestID(ctx))
	return domain.DefaultOrders(), nil
}
