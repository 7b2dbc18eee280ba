package dto

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderResponse struct {
	OrderID             string              `json:"order_id"`
	StoreID             string              `json:"store_id"`
	Location            *Coordinates        `json:"location"`
	DesiredDeliveryDate string              `json:"desired_delivery_date"`
	Priority            bool                `json:"priority"`
	Status              string              `json:"status"`
	AssignedVehicleID   *string             `json:"assigned_vehicle_id"`
	Items               []OrderItemResponse `json:"items"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
