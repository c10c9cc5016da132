package handlers

import (
	"forklift-route-agent/internal/api/dto"
	"forklift-route-agent/internal/ports"
	"log"
	"net/http"
)

// OrderHandler exposes the current order set read-only.
type OrderHandler struct {
	Repo ports.OrderRepository
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
	}
	for i, o := range orders {
		res.Orders = append(res.Orders, dto.OrderResponse{
			Index:               i,
			PickupLocation:      o.PickupLocation,
			DeliveryLocation:    o.DeliveryLocation,
			OrderDemand:         o.OrderDemand,
			EarliestPickup:      o.EarliestPickup,
			LatestPickup:        o.LatestPickup,
			PickupServiceTime:   o.PickupServiceTime,
			EarliestDelivery:    o.EarliestDelivery,
			LatestDelivery:      o.LatestDelivery,
			DeliveryServiceTime: o.DeliveryServiceTime,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
