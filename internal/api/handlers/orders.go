package handlers

import (
	"net/http"
	"store-route-planner/internal/api/dto"
	"store-route-planner/internal/ports"
	"time"
)

// OrderHandler exposes read-only order retrieval endpoints.
type OrderHandler struct {
	Repo ports.OrderRepository
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, "orders.List", err)
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		out := dto.OrderResponse{
			OrderID:             o.ID,
			StoreID:             o.StoreID,
			DesiredDeliveryDate: o.DesiredDeliveryDate.Format(time.DateOnly),
			Priority:            o.Priority,
			Status:              o.Status,
			AssignedVehicleID:   o.AssignedVehicleID,
			Items:               make([]dto.OrderItemResponse, 0, len(o.Items)),
		}
		if o.Location != nil {
			out.Location = &dto.Coordinates{Lat: o.Location.Lat, Lon: o.Location.Lon}
		}
		for _, it := range o.Items {
			out.Items = append(out.Items, dto.OrderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		res.Orders = append(res.Orders, out)
	}

	writeJSON(w, r, http.StatusOK, res)
}
