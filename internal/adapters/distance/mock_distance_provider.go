package distance

import "store-route-planner/internal/domain"

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
}

// MockDistanceProvider returns fixed distances for known pairs in either
// direction and falls back to Haversine for everything else.
type MockDistanceProvider struct {
	m map[[2]domain.Coordinates]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]domain.Coordinates]float64, 2*len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinates{p.From, p.To}] = p.Km
		m[[2]domain.Coordinates{p.To, p.From}] = p.Km
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) Distance(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}
	if km, ok := p.m[[2]domain.Coordinates{a, b}]; ok {
		return km
	}
	return Haversine(a, b)
}
