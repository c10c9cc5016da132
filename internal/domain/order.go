package domain

import "fmt"

// Order is a single pickup-then-delivery transport task.
// Time values are in solver time units.
type Order struct {
	PickupLocation      int `json:"pickup_location"`
	DeliveryLocation    int `json:"delivery_location"`
	OrderDemand         int `json:"order_demand"`
	EarliestPickup      int `json:"earliest_pickup"`
	LatestPickup        int `json:"latest_pickup"`
	PickupServiceTime   int `json:"pickup_service_time"`
	EarliestDelivery    int `json:"earliest_delivery"`
	LatestDelivery      int `json:"latest_delivery"`
	DeliveryServiceTime int `json:"delivery_service_time"`
}

// OrderColumns lists the persisted column names in table order.
var OrderColumns = []string{
	"pickup_location",
	"delivery_location",
	"order_demand",
	"earliest_pickup",
	"latest_pickup",
	"pickup_service_time",
	"earliest_delivery",
	"latest_delivery",
	"delivery_service_time",
}

// Validate checks the structural invariants the solver relies on.
func (o Order) Validate() error {
	if !ValidLocation(o.PickupLocation) {
		return fmt.Errorf("pickup_location %d is not a known location", o.PickupLocation)
	}
	if !ValidLocation(o.DeliveryLocation) {
		return fmt.Errorf("delivery_location %d is not a known location", o.DeliveryLocation)
	}
	if o.OrderDemand < 0 {
		return fmt.Errorf("order_demand must be non-negative, got %d", o.OrderDemand)
	}
	if o.EarliestPickup > o.LatestPickup {
		return fmt.Errorf("earliest_pickup %d is after latest_pickup %d", o.EarliestPickup, o.LatestPickup)
	}
	if o.EarliestDelivery > o.LatestDelivery {
		return fmt.Errorf("earliest_delivery %d is after latest_delivery %d", o.EarliestDelivery, o.LatestDelivery)
	}
	if o.PickupServiceTime < 0 || o.DeliveryServiceTime < 0 {
		return fmt.Errorf("service times must be non-negative")
	}
	return nil
}

// Values returns the order fields in OrderColumns order.
func (o Order) Values() []int {
	return []int{
		o.PickupLocation,
		o.DeliveryLocation,
		o.OrderDemand,
		o.EarliestPickup,
		o.LatestPickup,
		o.PickupServiceTime,
		o.EarliestDelivery,
		o.LatestDelivery,
		o.DeliveryServiceTime,
	}
}

// OrderFromValues is the inverse of Values.
func OrderFromValues(v []int) (Order, error) {
	if len(v) != len(OrderColumns) {
		return Order{}, fmt.Errorf("expected %d values, got %d", len(OrderColumns), len(v))
	}
	return Order{
		PickupLocation:      v[0],
		DeliveryLocation:    v[1],
		OrderDemand:         v[2],
		EarliestPickup:      v[3],
		LatestPickup:        v[4],
		PickupServiceTime:   v[5],
		EarliestDelivery:    v[6],
		LatestDelivery:      v[7],
		DeliveryServiceTime: v[8],
	}, nil
}

// OrderSet is an ordered collection of orders. Positions are 0-based and
// contiguous; every pipeline run works on its own copy.
type OrderSet []Order

// Clone returns an independent copy of the set.
func (s OrderSet) Clone() OrderSet {
	if s == nil {
		return OrderSet{}
	}
	out := make(OrderSet, len(s))
	copy(out, s)
	return out
}

// DefaultOrders returns the built-in dataset used when no external order
// source is available.
func DefaultOrders() OrderSet {
	pickups := []int{1, 1, 3, 2, 3, 4, 1, 2, 2}
	deliveries := []int{5, 5, 5, 6, 7, 7, 8, 8, 8}
	latestPickups := []int{10, 20, 30, 10, 20, 30, 10, 20, 30}

	orders := make(OrderSet, 0, len(pickups))
	for i := range pickups {
		orders = append(orders, Order{
			PickupLocation:      pickups[i],
			DeliveryLocation:    deliveries[i],
			OrderDemand:         1,
			EarliestPickup:      0,
			LatestPickup:        latestPickups[i],
			PickupServiceTime:   2,
			EarliestDelivery:    0,
			LatestDelivery:      55,
			DeliveryServiceTime: 2,
		})
	}
	return orders
}
