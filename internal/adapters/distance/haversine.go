package distance

import (
	"math"
	"store-route-planner/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// HaversineProvider implements DistanceProvider with straight-line
// great-circle distances. It is stateless and safe for concurrent use.
type HaversineProvider struct{}

func NewHaversineProvider() HaversineProvider { return HaversineProvider{} }

func (HaversineProvider) Distance(a, b domain.Coordinates) float64 {
	return Haversine(a, b)
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h slightly outside [0,1] for near-identical or antipodal points.
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
