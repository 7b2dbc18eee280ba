package domain

const (
	LoadHomogeneous   = "homogeneous"
	LoadHeterogeneous = "heterogeneous"
)

// LoadItem is a requested quantity of one product.
type LoadItem struct {
	ProductID string
	Quantity  int
}

type AllocatedItem struct {
	ProductID         string
	RequestedQuantity int
	ApprovedQuantity  int
	Load              float64
	IsReduced         bool
}

type Reduction struct {
	ProductID         string
	RequestedQuantity int
	ApprovedQuantity  int
	ReducedBy         int
}

// CapacityResult describes how a requested load fits a target capacity.
// CanFit=false with Reductions populated is a successful, reduced outcome.
type CapacityResult struct {
	ApprovedItems         []AllocatedItem
	TotalLoad             float64
	RequestedLoad         float64
	RemainingCapacity     float64
	UtilizationPercentage int
	CanFit                bool
	LoadType              string
	Reductions            []Reduction
}
