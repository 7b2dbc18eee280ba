package services

import (
	"fmt"
	"math"
	"store-route-planner/internal/domain"
)

// floorGuard keeps exact ratios such as 250*(200/250) from flooring to 199.
const floorGuard = 1e-9

// ComputeLoad converts item quantities into capacity units.
func ComputeLoad(items []domain.LoadItem, catalog domain.ProductCatalog) (float64, error) {
	total := 0.0
	for _, it := range items {
		p, ok := catalog[it.ProductID]
		if !ok {
			return 0, fmt.Errorf("compute load: unknown product %q: %w", it.ProductID, domain.ErrInvalidCapacityInput)
		}
		if p.CapacityFactor <= 0 {
			return 0, fmt.Errorf("compute load: product %q has non-positive capacity factor: %w", it.ProductID, domain.ErrInvalidCapacityInput)
		}
		if it.Quantity < 0 {
			return 0, fmt.Errorf("compute load: negative quantity for %q: %w", it.ProductID, domain.ErrInvalidCapacityInput)
		}
		total += float64(it.Quantity) * p.CapacityFactor
	}
	return total, nil
}

// IsHomogeneous reports whether exactly one distinct product has a positive quantity.
func IsHomogeneous(items []domain.LoadItem) bool {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			seen[it.ProductID] = struct{}{}
		}
	}
	return len(seen) == 1
}

// FitToCapacity decides how much of the requested items fits the capacity.
//
// When the load fits nothing is reduced. Otherwise every quantity is scaled by
// capacity/load and floored, which spreads the shortfall proportionally over all
// products instead of favoring one of them.
func FitToCapacity(items []domain.LoadItem, catalog domain.ProductCatalog, capacity float64) (domain.CapacityResult, error) {
	if capacity <= 0 || math.IsNaN(capacity) || math.IsInf(capacity, 0) {
		return domain.CapacityResult{}, fmt.Errorf("fit to capacity: capacity %v must be positive: %w", capacity, domain.ErrInvalidCapacityInput)
	}
	if len(items) == 0 {
		return domain.CapacityResult{}, fmt.Errorf("fit to capacity: item list is empty: %w", domain.ErrInvalidCapacityInput)
	}

	requested, err := ComputeLoad(items, catalog)
	if err != nil {
		return domain.CapacityResult{}, fmt.Errorf("fit to capacity: %w", err)
	}

	loadType := domain.LoadHeterogeneous
	if IsHomogeneous(items) {
		loadType = domain.LoadHomogeneous
	}

	res := domain.CapacityResult{
		RequestedLoad: requested,
		LoadType:      loadType,
		ApprovedItems: make([]domain.AllocatedItem, 0, len(items)),
		Reductions:    []domain.Reduction{},
	}

	if requested <= capacity+domain.CapacityTolerance {
		for _, it := range items {
			res.ApprovedItems = append(res.ApprovedItems, domain.AllocatedItem{
				ProductID:         it.ProductID,
				RequestedQuantity: it.Quantity,
				ApprovedQuantity:  it.Quantity,
				Load:              float64(it.Quantity) * catalog[it.ProductID].CapacityFactor,
			})
		}
		res.TotalLoad = requested
		res.CanFit = true
		res.RemainingCapacity = max(0, capacity-requested)
		res.UtilizationPercentage = utilization(requested, capacity)
		return res, nil
	}

	ratio := capacity / requested
	approved := make([]int, len(items))
	for i, it := range items {
		q := int(math.Floor(float64(it.Quantity)*ratio + floorGuard))
		approved[i] = max(0, min(q, it.Quantity))
	}
	shaveToCapacity(items, catalog, approved, capacity)

	total := 0.0
	for i, it := range items {
		load := float64(approved[i]) * catalog[it.ProductID].CapacityFactor
		total += load

		reduced := approved[i] < it.Quantity
		res.ApprovedItems = append(res.ApprovedItems, domain.AllocatedItem{
			ProductID:         it.ProductID,
			RequestedQuantity: it.Quantity,
			ApprovedQuantity:  approved[i],
			Load:              load,
			IsReduced:         reduced,
		})
		if reduced {
			res.Reductions = append(res.Reductions, domain.Reduction{
				ProductID:         it.ProductID,
				RequestedQuantity: it.Quantity,
				ApprovedQuantity:  approved[i],
				ReducedBy:         it.Quantity - approved[i],
			})
		}
	}

	res.TotalLoad = total
	res.CanFit = false
	res.RemainingCapacity = max(0, capacity-total)
	res.UtilizationPercentage = utilization(total, capacity)
	return res, nil
}

// CalculateLoad is the entry point used by callers outside the planning core.
func CalculateLoad(items []domain.LoadItem, catalog domain.ProductCatalog, capacity float64) (domain.CapacityResult, error) {
	res, err := FitToCapacity(items, catalog, capacity)
	if err != nil {
		return domain.CapacityResult{}, fmt.Errorf("calculate load: %w", err)
	}
	return res, nil
}

// shaveToCapacity removes single units, heaviest product first, while the
// floor guard left the approved load above capacity.
func shaveToCapacity(items []domain.LoadItem, catalog domain.ProductCatalog, approved []int, capacity float64) {
	for {
		load := 0.0
		heaviest := -1
		for i, it := range items {
			f := catalog[it.ProductID].CapacityFactor
			load += float64(approved[i]) * f
			if approved[i] > 0 && (heaviest < 0 || f > catalog[items[heaviest].ProductID].CapacityFactor) {
				heaviest = i
			}
		}
		if load <= capacity+domain.CapacityTolerance || heaviest < 0 {
			return
		}
		approved[heaviest]--
	}
}

func utilization(load, capacity float64) int {
	pct := int(math.Round(100 * load / capacity))
	return max(0, min(100, pct))
}
