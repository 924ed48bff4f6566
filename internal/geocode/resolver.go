// Package geocode finds coordinates for team host cities.
//
// A Resolver consults a JSON file cache before asking the geocoder, and
// caches misses too. Cities that cannot be placed keep nil coordinates.
package geocode

import (
	"context"
	"strings"
	"time"
)

type Result struct {
	Lat   float64
	Lon   float64
	Found bool
}

// Geocoder turns a free-form place query into coordinates
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

type Resolver struct {
	geocoder Geocoder
	cache    *Cache
	now      func() time.Time
}

func NewResolver(geocoder Geocoder, cache *Cache) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		cache:    cache,
		now:      time.Now,
	}
}

// Query formats the lookup for a city
func Query(city, state string) string {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	if city == "" || state == "" {
		return ""
	}
	return city + ", " + state
}

// Resolve returns the coordinates for query; cached reports whether the
// answer came from the cache
func (r *Resolver) Resolve(ctx context.Context, query string) (result Result, cached bool, err error) {
	if r == nil || r.geocoder == nil {
		return Result{Found: false}, false, nil
	}
	if strings.TrimSpace(query) == "" {
		return Result{Found: false}, false, nil
	}
	if entry, ok := r.cache.Get(query); ok {
		return Result{Lat: entry.Lat, Lon: entry.Lon, Found: entry.Found}, true, nil
	}
	result, err = r.geocoder.Geocode(ctx, query)
	if err != nil {
		return Result{}, false, err
	}
	r.cache.Set(query, CacheEntry{
		Lat:       result.Lat,
		Lon:       result.Lon,
		Found:     result.Found,
		UpdatedAt: r.now(),
	})
	return result, false, nil
}

// Coordinates resolves a city and returns nil pointers when it was not
// found
func (r *Resolver) Coordinates(ctx context.Context, city, state string) (lat, lon *float64, err error) {
	res, _, err := r.Resolve(ctx, Query(city, state))
	if err != nil || !res.Found {
		return nil, nil, err
	}
	return &res.Lat, &res.Lon, nil
}
