package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("GEOCODE_API_KEY", "test-key")
	t.Setenv("GEOCODE_BASE_URL", srv.URL)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	g, err := NewGeocoder(log, nil)
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}
	return g
}

func TestResolveOK(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "123 Main St" {
			t.Errorf("address param: got %q", got)
		}
		fmt.Fprint(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":40.7484,"lng":-73.9857}}}]}`)
	})

	coords, err := g.Resolve(context.Background(), "123 Main St")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if coords.Lat != 40.7484 || coords.Lng != -73.9857 {
		t.Fatalf("Resolve: unexpected coords %+v", coords)
	}
}

func TestResolveZeroResults(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	_, err := g.Resolve(context.Background(), "???")
	if !errors.Is(err, pkgerrors.ErrUnresolvableAddress) {
		t.Fatalf("Resolve: want ErrUnresolvableAddress, got %v", err)
	}
}

func TestResolveUpstreamHTTPError(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.Resolve(context.Background(), "123 Main St")
	if !errors.Is(err, pkgerrors.ErrUpstream) {
		t.Fatalf("Resolve: want ErrUpstream, got %v", err)
	}
}

func TestResolveUpstreamStatus(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","results":[]}`)
	})

	_, err := g.Resolve(context.Background(), "123 Main St")
	if !errors.Is(err, pkgerrors.ErrUpstream) {
		t.Fatalf("Resolve: want ErrUpstream, got %v", err)
	}
}

func TestCacheTTLFromEnv(t *testing.T) {
	t.Setenv("GEOCODE_API_KEY", "test-key")
	t.Setenv("GEOCODE_CACHE_TTL_HOURS", "6")

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	g, err := NewGeocoder(log, nil)
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}

	if ttl := g.(*geocoder).cacheTTL; ttl != 6*time.Hour {
		t.Fatalf("cacheTTL = %v, want 6h", ttl)
	}
}

func TestResolveEmptyAddress(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream should not be called for an empty address")
	})

	_, err := g.Resolve(context.Background(), "   ")
	if !errors.Is(err, pkgerrors.ErrUnresolvableAddress) {
		t.Fatalf("Resolve: want ErrUnresolvableAddress, got %v", err)
	}
}
