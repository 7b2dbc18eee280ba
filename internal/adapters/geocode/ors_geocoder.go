package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Cache stores geocoding results keyed by normalized address.
type Cache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService (/geocode/search).
//
// Lookups go to the cache first; only misses reach the API, and their
// results are written back. The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	cache   Cache
	limiter *rate.Limiter
	backoff time.Duration
}

// NewORSGeocoder returns a geocoder for the public ORS API. cache may be nil.
func NewORSGeocoder(apiKey string, cache Cache) (*ORSGeocoder, error) {
	return NewORSGeocoderWithClient(apiKey, "https://api.openrouteservice.org", &http.Client{Timeout: 10 * time.Second}, cache)
}

func NewORSGeocoderWithClient(apiKey, baseURL string, client *http.Client, cache Cache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		session: client,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		country: "ID",
		cache:   cache,
		// Free tier allows 100 geocode requests per minute.
		limiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 5),
		backoff: 200 * time.Millisecond,
	}, nil
}

// Normalize collapses whitespace so equivalent addresses share a cache key.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses to coordinates keyed by normalized address.
// Blank addresses are skipped.
func (g *ORSGeocoder) Geocode(ctx context.Context, addresses []string) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	seen := make(map[string]struct{}, len(addresses))
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		norm := Normalize(a)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		uniq = append(uniq, norm)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, uniq)
		if err != nil {
			// A cache outage only costs extra API calls.
			log.Printf("op=ors.Geocode cache_get err=%v", err)
		}
		for addr, c := range hits {
			out[addr] = c
		}
	}

	fetched := make(map[string]domain.Coordinates)
	for _, addr := range uniq {
		if _, ok := out[addr]; ok {
			continue
		}

		c, err := g.geocodeOne(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", addr, err)
		}
		out[addr] = c
		fetched[addr] = c
	}

	if g.cache != nil && len(fetched) > 0 {
		if err := g.cache.PutMany(ctx, fetched); err != nil {
			log.Printf("op=ors.Geocode cache_put err=%v", err)
		}
	}

	return out, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (g *ORSGeocoder) geocodeOne(ctx context.Context, addr string) (domain.Coordinates, error) {
	endpoint := g.baseURL + "/geocode/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", addr)
		q.Set("boundary.country", g.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, errors.New("no geocode results")
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, errors.New("invalid coordinate format")
	}

	// ORS returns [lon, lat].
	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
