package services

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/ports"
)

type saving struct {
	i, j     int
	value    float64
	priority bool
}

// savingsRoute is a working route in the merge phase.
type savingsRoute struct {
	nodes  []int
	demand float64
}

// RunSavings partitions nodes into capacity-feasible trips using the
// Clarke-Wright savings heuristic.
//
// Every node starts on its own depot round trip. Pairs are merged greedily in
// descending order of saving(i,j) = d(depot,i) + d(depot,j) - d(i,j), only
// when both nodes are endpoints of different routes and the merged demand fits.
// Equal savings prefer pairs that touch a priority node; remaining ties keep
// generation order so identical inputs always yield identical trips.
func RunSavings(
	nodes []domain.DemandNode,
	depot domain.Coordinates,
	capacity float64,
	dist ports.DistanceProvider,
) ([]domain.Trip, error) {
	if capacity <= 0 || math.IsNaN(capacity) {
		return nil, fmt.Errorf("run savings: capacity %v must be positive: %w", capacity, domain.ErrInvalidCapacityInput)
	}

	if len(nodes) == 0 {
		return []domain.Trip{}, nil
	}

	for _, n := range nodes {
		if n.Demand > capacity+domain.CapacityTolerance {
			return nil, fmt.Errorf("run savings: %w", &domain.NodeCapacityError{
				StoreID:  n.ID,
				Demand:   n.Demand,
				Capacity: capacity,
			})
		}
	}

	fromDepot := make([]float64, len(nodes))
	for i, n := range nodes {
		fromDepot[i] = dist.Distance(depot, n.Location)
	}

	savings := computeSavings(nodes, fromDepot, dist)

	// routeOf maps a node index to its current route; nil once merged away.
	routes := make([]*savingsRoute, len(nodes))
	routeOf := make([]*savingsRoute, len(nodes))
	for i, n := range nodes {
		r := &savingsRoute{nodes: []int{i}, demand: n.Demand}
		routes[i] = r
		routeOf[i] = r
	}

	for _, s := range savings {
		ri, rj := routeOf[s.i], routeOf[s.j]
		if ri == rj {
			continue
		}

		iHead, iTail := ri.nodes[0] == s.i, ri.nodes[len(ri.nodes)-1] == s.i
		jHead, jTail := rj.nodes[0] == s.j, rj.nodes[len(rj.nodes)-1] == s.j
		if !(iHead || iTail) || !(jHead || jTail) {
			continue
		}

		if ri.demand+rj.demand > capacity+domain.CapacityTolerance {
			continue
		}

		merged := joinRoutes(ri.nodes, rj.nodes, iHead, iTail, jHead, jTail, fromDepot)

		ri.nodes = merged
		ri.demand += rj.demand
		for _, idx := range rj.nodes {
			routeOf[idx] = ri
		}
		rj.nodes = nil
	}

	// Emit surviving routes ordered by the input position of their first node.
	seen := make(map[*savingsRoute]struct{}, len(nodes))
	final := make([]*savingsRoute, 0, len(nodes))
	for i := range nodes {
		r := routeOf[i]
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		final = append(final, r)
	}

	trips := make([]domain.Trip, 0, len(final))
	for _, r := range final {
		trips = append(trips, buildTrip(nodes, r, depot, dist))
	}

	return trips, nil
}

// computeSavings returns positive savings sorted for the merge phase.
func computeSavings(nodes []domain.DemandNode, fromDepot []float64, dist ports.DistanceProvider) []saving {
	n := len(nodes)
	out := make([]saving, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := fromDepot[i] + fromDepot[j] - dist.Distance(nodes[i].Location, nodes[j].Location)
			if v <= 0 {
				continue
			}
			out = append(out, saving{
				i:        i,
				j:        j,
				value:    v,
				priority: nodes[i].Priority || nodes[j].Priority,
			})
		}
	}

	slices.SortStableFunc(out, func(a, b saving) int {
		if c := cmp.Compare(b.value, a.value); c != 0 {
			return c
		}
		switch {
		case a.priority && !b.priority:
			return -1
		case !a.priority && b.priority:
			return 1
		}
		return 0
	})

	return out
}

// joinRoutes concatenates two routes so that i and j become adjacent.
// Both singleton routes are ordered nearest-to-depot first.
func joinRoutes(ri, rj []int, iHead, iTail, jHead, jTail bool, fromDepot []float64) []int {
	merged := make([]int, 0, len(ri)+len(rj))

	switch {
	case len(ri) == 1 && len(rj) == 1:
		a, b := ri[0], rj[0]
		if fromDepot[b] < fromDepot[a] {
			a, b = b, a
		}
		merged = append(merged, a, b)
	case iTail && jHead:
		merged = append(merged, ri...)
		merged = append(merged, rj...)
	case iHead && jTail:
		merged = append(merged, rj...)
		merged = append(merged, ri...)
	case iHead && jHead:
		merged = append(merged, reversed(ri)...)
		merged = append(merged, rj...)
	default: // iTail && jTail
		merged = append(merged, ri...)
		merged = append(merged, reversed(rj)...)
	}

	return merged
}

func reversed(s []int) []int {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

func buildTrip(nodes []domain.DemandNode, r *savingsRoute, depot domain.Coordinates, dist ports.DistanceProvider) domain.Trip {
	ids := make([]string, 0, len(r.nodes))
	km := 0.0
	prev := depot
	for _, idx := range r.nodes {
		n := nodes[idx]
		ids = append(ids, n.ID)
		km += dist.Distance(prev, n.Location)
		prev = n.Location
	}
	km += dist.Distance(prev, depot)

	return domain.Trip{
		NodeIDs:    ids,
		Demand:     r.demand,
		DistanceKm: km,
	}
}
