package services

import (
	"testing"

	"store-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRegions(t *testing.T) {
	const split = 106.80

	nodes := []domain.DemandNode{
		{ID: "w1", Location: domain.Coordinates{Lat: -6.2, Lon: 106.70}},
		{ID: "e1", Location: domain.Coordinates{Lat: -6.2, Lon: 106.90}},
		{ID: "edge", Location: domain.Coordinates{Lat: -6.2, Lon: split}},
		{ID: "w2", Location: domain.Coordinates{Lat: -6.3, Lon: 106.79999}},
		{ID: "e2", Location: domain.Coordinates{Lat: -6.1, Lon: 107.00}},
	}

	got := ClassifyRegions(nodes, split)

	ids := func(ns []domain.DemandNode) []string {
		out := []string{}
		for _, n := range ns {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []string{"e1", "edge", "e2"}, ids(got[domain.RegionEast]))
	assert.Equal(t, []string{"w1", "w2"}, ids(got[domain.RegionWest]))
	assert.Len(t, got, 2)
	assert.Equal(t, len(nodes), len(got[domain.RegionEast])+len(got[domain.RegionWest]))
}

func TestClassifyRegionsEmpty(t *testing.T) {
	got := ClassifyRegions(nil, 0)

	assert.Empty(t, got[domain.RegionEast])
	assert.Empty(t, got[domain.RegionWest])
}
