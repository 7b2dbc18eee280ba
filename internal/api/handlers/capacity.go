package handlers

import (
	"net/http"
	"store-route-planner/internal/api/dto"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/ports"
	"store-route-planner/internal/services"
)

// CapacityHandler fits a requested product mix into a vehicle capacity.
type CapacityHandler struct {
	Catalog ports.CatalogRepository
}

func (h *CapacityHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CapacityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, "capacity.ListProducts", err)
		return
	}

	items := make([]domain.LoadItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.LoadItem{ProductID: it.ProductType, Quantity: it.Quantity})
	}

	result, err := services.CalculateLoad(items, domain.NewProductCatalog(products), req.Capacity)
	if err != nil {
		writeServiceError(w, r, "capacity.Calculate", err)
		return
	}

	res := dto.CapacityResponse{
		ApprovedItems:         make([]dto.AllocatedItemResponse, 0, len(result.ApprovedItems)),
		TotalLoad:             result.TotalLoad,
		RequestedLoad:         result.RequestedLoad,
		RemainingCapacity:     result.RemainingCapacity,
		UtilizationPercentage: result.UtilizationPercentage,
		CanFit:                result.CanFit,
		LoadType:              result.LoadType,
		Reductions:            make([]dto.ReductionResponse, 0, len(result.Reductions)),
	}
	for _, it := range result.ApprovedItems {
		res.ApprovedItems = append(res.ApprovedItems, dto.AllocatedItemResponse{
			ProductType:       it.ProductID,
			RequestedQuantity: it.RequestedQuantity,
			ApprovedQuantity:  it.ApprovedQuantity,
			Load:              it.Load,
			IsReduced:         it.IsReduced,
		})
	}
	for _, red := range result.Reductions {
		res.Reductions = append(res.Reductions, dto.ReductionResponse{
			ProductType:       red.ProductID,
			RequestedQuantity: red.RequestedQuantity,
			ApprovedQuantity:  red.ApprovedQuantity,
			ReducedBy:         red.ReducedBy,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
