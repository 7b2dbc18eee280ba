package distance

import (
	"math"
	"testing"

	"store-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Jakarta Monas to Bandung Gedung Sate, roughly 119 km apart.
	jakarta := domain.Coordinates{Lat: -6.1754, Lon: 106.8272}
	bandung := domain.Coordinates{Lat: -6.9025, Lon: 107.6188}

	d := Haversine(jakarta, bandung)
	assert.InDelta(t, 119.0, d, 3.0)
}

func TestHaversineSymmetricAndZero(t *testing.T) {
	points := []domain.Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: -6.2, Lon: 106.8},
		{Lat: 51.5007, Lon: -0.1246},
		{Lat: -33.8568, Lon: 151.2153},
		{Lat: 89.9999, Lon: 179.9999},
	}

	p := NewHaversineProvider()
	for _, a := range points {
		assert.Equal(t, 0.0, p.Distance(a, a))
		for _, b := range points {
			assert.Equal(t, p.Distance(a, b), p.Distance(b, a))
		}
	}
}

func TestHaversineTinyDeltaIsStable(t *testing.T) {
	a := domain.Coordinates{Lat: -6.2000000001, Lon: 106.8000000001}
	b := domain.Coordinates{Lat: -6.2000000002, Lon: 106.8000000002}

	d := Haversine(a, b)
	require.False(t, math.IsNaN(d))
	assert.GreaterOrEqual(t, d, 0.0)
	assert.Less(t, d, 1e-3)
}

func TestHaversineAntipodal(t *testing.T) {
	d := Haversine(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 180})
	require.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
}

func TestMockDistanceProvider(t *testing.T) {
	hub := domain.Coordinates{Lat: 1, Lon: 1}
	a := domain.Coordinates{Lat: 2, Lon: 2}
	far := domain.Coordinates{Lat: 3, Lon: 3}

	p := NewMockDistanceProvider([]MockPair{{From: hub, To: a, Km: 2}})

	assert.Equal(t, 2.0, p.Distance(hub, a))
	assert.Equal(t, 2.0, p.Distance(a, hub))
	assert.Equal(t, 0.0, p.Distance(a, a))
	assert.Equal(t, Haversine(hub, far), p.Distance(hub, far))
}
