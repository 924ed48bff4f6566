package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pfrederiksen/milb-data/internal/httpx"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim geocodes free-form queries against OpenStreetMap. Pacing comes
// from the httpx client; the public instance allows one request per second.
type Nominatim struct {
	baseURL string
	http    *httpx.Client
}

type NominatimOption func(*Nominatim)

func WithBaseURL(baseURL string) NominatimOption {
	return func(n *Nominatim) {
		if strings.TrimSpace(baseURL) != "" {
			n.baseURL = baseURL
		}
	}
}

func WithClient(client *httpx.Client) NominatimOption {
	return func(n *Nominatim) {
		if client != nil {
			n.http = client
		}
	}
}

func NewNominatim(opts ...NominatimOption) *Nominatim {
	n := &Nominatim{
		baseURL: DefaultNominatimURL,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.http == nil {
		n.http = httpx.New()
	}
	return n
}

func (n *Nominatim) Geocode(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{Found: false}, nil
	}
	if n == nil {
		return Result{}, errors.New("geocode: nominatim is nil")
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	endpoint := strings.TrimRight(n.baseURL, "/") + "/search"
	if err := n.http.GetJSON(ctx, endpoint, params, &results); err != nil {
		return Result{}, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return Result{Found: false}, nil
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: lon %q: %w", results[0].Lon, err)
	}
	return Result{Lat: lat, Lon: lon, Found: true}, nil
}
