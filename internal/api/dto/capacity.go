package dto

type CapacityItemRequest struct {
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
}

type CapacityRequest struct {
	Items    []CapacityItemRequest `json:"items"`
	Capacity float64               `json:"capacity"`
}

type AllocatedItemResponse struct {
	ProductType       string  `json:"product_type"`
	RequestedQuantity int     `json:"requested_quantity"`
	ApprovedQuantity  int     `json:"approved_quantity"`
	Load              float64 `json:"load"`
	IsReduced         bool    `json:"is_reduced"`
}

type ReductionResponse struct {
	ProductType       string `json:"product_type"`
	RequestedQuantity int    `json:"requested_quantity"`
	ApprovedQuantity  int    `json:"approved_quantity"`
	ReducedBy         int    `json:"reduced_by"`
}

type CapacityResponse struct {
	ApprovedItems         []AllocatedItemResponse `json:"approved_items"`
	TotalLoad             float64                 `json:"total_load"`
	RequestedLoad         float64                 `json:"requested_load"`
	RemainingCapacity     float64                 `json:"remaining_capacity"`
	UtilizationPercentage int                     `json:"utilization_percentage"`
	CanFit                bool                    `json:"can_fit"`
	LoadType              string                  `json:"load_type"`
	Reductions            []ReductionResponse     `json:"reductions"`
}
