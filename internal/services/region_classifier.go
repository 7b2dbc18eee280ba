package services

import "store-route-planner/internal/domain"

// ClassifyRegions splits demand nodes East/West of the reference longitude.
//
// A node is East when its longitude is greater than or equal to splitLon.
// Input order is preserved inside each region and both regions are always
// present in the result, possibly empty.
func ClassifyRegions(nodes []domain.DemandNode, splitLon float64) map[domain.Region][]domain.DemandNode {
	out := map[domain.Region][]domain.DemandNode{
		domain.RegionEast: {},
		domain.RegionWest: {},
	}

	for _, n := range nodes {
		region := domain.RegionWest
		if n.Location.Lon >= splitLon {
			region = domain.RegionEast
		}
		out[region] = append(out[region], n)
	}

	return out
}
