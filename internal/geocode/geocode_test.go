package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/milb-data/internal/httpx"
)

func TestNominatimGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("format") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("q") {
		case "Akron, Ohio":
			w.Write([]byte(`[{"lat":"41.0833","lon":"-81.5167"}]`))
		case "Broken, Ohio":
			w.Write([]byte(`[{"lat":"north","lon":"-81.5"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	n := NewNominatim(WithBaseURL(server.URL), WithClient(httpx.New()))
	ctx := context.Background()

	res, err := n.Geocode(ctx, "Akron, Ohio")
	if err != nil || !res.Found || res.Lat != 41.0833 || res.Lon != -81.5167 {
		t.Errorf("Geocode(Akron) = %+v, %v", res, err)
	}

	res, err = n.Geocode(ctx, "Atlantis, Ohio")
	if err != nil || res.Found {
		t.Errorf("Geocode(Atlantis) = %+v, %v", res, err)
	}

	if _, err := n.Geocode(ctx, "Broken, Ohio"); err == nil {
		t.Error("unparseable latitude should fail")
	}

	if res, err := n.Geocode(ctx, "  "); err != nil || res.Found {
		t.Errorf("blank query = %+v, %v", res, err)
	}
}

type fakeGeocoder struct {
	calls   int
	results map[string]Result
	err     error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return f.results[query], nil
}

func TestResolver(t *testing.T) {
	fake := &fakeGeocoder{results: map[string]Result{
		"Durham, North Carolina": {Lat: 35.99, Lon: -78.90, Found: true},
	}}
	cache, _ := LoadCache("")
	r := NewResolver(fake, cache)
	ctx := context.Background()

	lat, lon, err := r.Coordinates(ctx, "Durham", "North Carolina")
	if err != nil || lat == nil || *lat != 35.99 || *lon != -78.90 {
		t.Fatalf("Coordinates(Durham) = %v, %v, %v", lat, lon, err)
	}

	// cached, case and spacing insensitive
	res, cached, err := r.Resolve(ctx, "durham,  north carolina")
	if err != nil || !cached || !res.Found {
		t.Errorf("Resolve() = %+v, cached %v, %v", res, cached, err)
	}

	lat, lon, err = r.Coordinates(ctx, "Nowhere", "Ohio")
	if err != nil || lat != nil || lon != nil {
		t.Errorf("Coordinates(Nowhere) = %v, %v, %v", lat, lon, err)
	}
	r.Coordinates(ctx, "Nowhere", "Ohio")
	if fake.calls != 2 {
		t.Errorf("geocoder calls = %d, want 2 (misses are cached)", fake.calls)
	}

	if lat, _, _ := r.Coordinates(ctx, "", "Ohio"); lat != nil || fake.calls != 2 {
		t.Error("blank city should not be geocoded")
	}
}

func TestResolver_Error(t *testing.T) {
	fake := &fakeGeocoder{err: errors.New("status 503")}
	r := NewResolver(fake, nil)

	if _, _, err := r.Coordinates(context.Background(), "Akron", "Ohio"); err == nil {
		t.Error("geocoder error should be returned")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo", "cache.json")

	cache, err := LoadCache(path)
	if err != nil {
		t.Fatalf("LoadCache(missing) error = %v", err)
	}
	cache.Set("Akron, Ohio", CacheEntry{Lat: 41.08, Lon: -81.51, Found: true})

	if err := SaveCache(path, cache); err != nil {
		t.Fatalf("SaveCache() error = %v", err)
	}
	loaded, err := LoadCache(path)
	if err != nil {
		t.Fatalf("LoadCache() error = %v", err)
	}
	entry, ok := loaded.Get("AKRON, OHIO")
	if !ok || entry.Lat != 41.08 || entry.Query != "Akron, Ohio" {
		t.Errorf("entry = %+v, %v", entry, ok)
	}
}
