package dto

type OrderResponse struct {
	Index               int `json:"index"`
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

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
