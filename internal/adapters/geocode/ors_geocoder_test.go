package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"store-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]domain.Coordinates
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]domain.Coordinates{}}
}

func (m *memoryCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if c, ok := m.data[a]; ok {
			out[a] = c
		}
	}
	return out, nil
}

func (m *memoryCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range results {
		m.data[k] = v
	}
	return nil
}

func newTestGeocoder(t *testing.T, h http.HandlerFunc, cache Cache) *ORSGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewORSGeocoderWithClient("test-key", srv.URL, srv.Client(), cache)
	require.NoError(t, err)
	g.limiter = rate.NewLimiter(rate.Inf, 1)
	g.backoff = time.Millisecond
	return g
}

func featureJSON(lon, lat float64) string {
	return fmt.Sprintf(`{"features":[{"geometry":{"coordinates":[%v,%v]}}]}`, lon, lat)
}

func TestGeocodeUsesCache(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()

	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "Jl. Sudirman 1, Jakarta", r.URL.Query().Get("text"))
		assert.Equal(t, "ID", r.URL.Query().Get("boundary.country"))
		_, _ = w.Write([]byte(featureJSON(106.82, -6.21)))
	}, cache)

	ctx := context.Background()
	got, err := g.Geocode(ctx, []string{"Jl. Sudirman  1,   Jakarta", "Jl. Sudirman 1, Jakarta", "  "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Coordinates{Lat: -6.21, Lon: 106.82}, got["Jl. Sudirman 1, Jakarta"])
	assert.Equal(t, int32(1), calls.Load())

	again, err := g.Geocode(ctx, []string{"Jl. Sudirman 1, Jakarta"})
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), calls.Load(), "second lookup must be served from cache")
}

func TestGeocodeRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32

	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(featureJSON(106.9, -6.15)))
	}, nil)

	got, err := g.Geocode(context.Background(), []string{"Kelapa Gading"})
	require.NoError(t, err)
	assert.Equal(t, -6.15, got["Kelapa Gading"].Lat)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocodeFailures(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad key", http.StatusForbidden)
		}, nil)

		_, err := g.Geocode(context.Background(), []string{"x"})
		require.Error(t, err)
		var he *httpStatusError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("no results", func(t *testing.T) {
		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"features":[]}`))
		}, nil)
		_, err := g.Geocode(context.Background(), []string{"nowhere"})
		require.Error(t, err)
	})

	t.Run("empty api key", func(t *testing.T) {
		_, err := NewORSGeocoder("", nil)
		require.Error(t, err)
	})
}
