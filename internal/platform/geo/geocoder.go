package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/placeshare-backend/internal/domain"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/env"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

// Geocoder resolves a postal address to coordinates. A bad address and an
// unavailable upstream are different failures: the first is the caller's
// fault, the second is not.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (types.Coordinates, error)
}

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

type geocoder struct {
	log        *logger.Logger
	httpClient *http.Client
	rdb        *goredis.Client
	baseURL    string
	apiKey     string
	cacheTTL   time.Duration
}

// NewGeocoder builds a client for the Google Geocoding API. rdb is an
// optional read-through cache; pass nil to disable caching.
func NewGeocoder(log *logger.Logger, rdb *goredis.Client) (Geocoder, error) {
	serviceLog := log.With("service", "Geocoder")

	apiKey := strings.TrimSpace(os.Getenv("GEOCODE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing env var GEOCODE_API_KEY")
	}
	baseURL := strings.TrimSpace(os.Getenv("GEOCODE_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	cacheTTLHours := env.GetInt("GEOCODE_CACHE_TTL_HOURS", 24, serviceLog)

	return &geocoder{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		rdb:        rdb,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cacheTTL:   time.Duration(cacheTTLHours) * time.Hour,
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *geocoder) Resolve(ctx context.Context, address string) (types.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coordinates{}, fmt.Errorf("empty address: %w", pkgerrors.ErrUnresolvableAddress)
	}

	if coords, ok := g.cacheGet(ctx, address); ok {
		return coords, nil
	}

	reqURL := fmt.Sprintf("%s?address=%s&key=%s", g.baseURL, url.QueryEscape(address), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("geocode request failed: %w: %v", pkgerrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Coordinates{}, fmt.Errorf("geocode returned HTTP %d: %w", resp.StatusCode, pkgerrors.ErrUpstream)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Coordinates{}, fmt.Errorf("decode geocode response: %w: %v", pkgerrors.ErrUpstream, err)
	}

	switch body.Status {
	case "OK":
		if len(body.Results) == 0 {
			return types.Coordinates{}, fmt.Errorf("no results for %q: %w", address, pkgerrors.ErrUnresolvableAddress)
		}
	case "ZERO_RESULTS":
		return types.Coordinates{}, fmt.Errorf("no match for %q: %w", address, pkgerrors.ErrUnresolvableAddress)
	default:
		return types.Coordinates{}, fmt.Errorf("geocode status %q: %w", body.Status, pkgerrors.ErrUpstream)
	}

	coords := types.Coordinates{
		Lat: body.Results[0].Geometry.Location.Lat,
		Lng: body.Results[0].Geometry.Location.Lng,
	}
	g.cacheSet(ctx, address, coords)
	return coords, nil
}

func (g *geocoder) cacheKey(address string) string {
	return "geocode:" + strings.ToLower(address)
}

func (g *geocoder) cacheGet(ctx context.Context, address string) (types.Coordinates, bool) {
	if g.rdb == nil {
		return types.Coordinates{}, false
	}
	raw, err := g.rdb.Get(ctx, g.cacheKey(address)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			g.log.Warn("geocode cache read failed", "error", err)
		}
		return types.Coordinates{}, false
	}
	var coords types.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return types.Coordinates{}, false
	}
	return coords, true
}

func (g *geocoder) cacheSet(ctx context.Context, address string, coords types.Coordinates) {
	if g.rdb == nil {
		return
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := g.rdb.Set(ctx, g.cacheKey(address), raw, g.cacheTTL).Err(); err != nil {
		g.log.Warn("geocode cache write failed", "error", err)
	}
}
