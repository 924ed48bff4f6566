// Package fred reads economic series from the St. Louis Fed FRED API.
package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/milb-data/internal/httpx"
	"github.com/pfrederiksen/milb-data/internal/record"
)

const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// ErrNoAPIKey is returned when a query is made without FRED_API_KEY
var ErrNoAPIKey = errors.New("FRED API key not configured")

// Observation is one dated value of a series
type Observation struct {
	SeriesID string      `json:"series_id"`
	Date     time.Time   `json:"date"`
	Value    record.Cell `json:"value"`
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Client is a client for the FRED API
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

// NewClient creates a new FRED client
func NewClient(http *httpx.Client, apiKey string) *Client {
	if http == nil {
		http = httpx.New()
	}
	return &Client{http: http, baseURL: DefaultBaseURL, apiKey: apiKey}
}

// SetBaseURL points the client at another API root
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// MetroGDPSeries returns the series ID of total GDP for a metropolitan
// statistical area
func MetroGDPSeries(cbsa string) string {
	return "NGMP" + cbsa
}

// Observations returns every observation of seriesID in date order. FRED
// reports gaps as "."; those become missing values.
func (c *Client) Observations(ctx context.Context, seriesID string) ([]Observation, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	params := url.Values{
		"series_id": {seriesID},
		"api_key":   {c.apiKey},
		"file_type": {"json"},
	}
	var resp observationsResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/series/observations", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching series %s: %w", seriesID, err)
	}

	out := make([]Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		date, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			return nil, fmt.Errorf("series %s: parsing date %q: %w", seriesID, o.Date, err)
		}
		value := record.Missing()
		if f, err := strconv.ParseFloat(o.Value, 64); err == nil {
			value = record.Float(f)
		}
		out = append(out, Observation{SeriesID: seriesID, Date: date, Value: value})
	}
	return out, nil
}
