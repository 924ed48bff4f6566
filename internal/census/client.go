package census

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/pfrederiksen/milb-data/internal/httpx"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/record"
)

const (
	DefaultBaseURL = "https://api.census.gov/data"
	DefaultBatch   = 10

	// cbsaGeography is the ACS geography name for metro and micro areas
	cbsaGeography = "metropolitan statistical area/micropolitan statistical area"

	// annotationFloor: estimates at or below this value are Census
	// annotation codes (-666666666 and friends), not data
	annotationFloor = -222222222
)

var (
	ErrUnknownState  = errors.New("unknown state")
	ErrPlaceNotFound = errors.New("census place not found")
)

// Place identifies an incorporated place (city) in the ACS
type Place struct {
	Name      string // "Akron city, Ohio"
	StateFIPS string
	PlaceFIPS string
}

// Estimate is one city's ACS 5-year row
type Estimate struct {
	PlaceName string
	City      string
	State     string
	Values    record.Row // keyed by variable code
}

// Client is a client for the Census ACS 5-year API
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
	year    int

	mu        sync.Mutex
	stateFIPS map[string]string // state name -> FIPS, per client
}

// NewClient creates a new ACS client for the given 5-year vintage
func NewClient(http *httpx.Client, apiKey string, year int) *Client {
	if http == nil {
		http = httpx.New()
	}
	return &Client{
		http:    http,
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		year:    year,
	}
}

// SetBaseURL points the client at another API root
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// Year returns the ACS vintage queried
func (c *Client) Year() int {
	return c.year
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/%d/acs/acs5", c.baseURL, c.year)
}

// query runs one API call and decodes the [header, row, ...] response
func (c *Client) query(ctx context.Context, params url.Values) ([][]string, error) {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	var raw [][]interface{}
	if err := c.http.GetJSON(ctx, c.endpoint(), params, &raw); err != nil {
		return nil, err
	}

	rows := make([][]string, len(raw))
	for i, r := range raw {
		row := make([]string, len(r))
		for j, v := range r {
			switch t := v.(type) {
			case string:
				row[j] = t
			case float64:
				row[j] = strconv.FormatFloat(t, 'f', -1, 64)
			case nil:
				row[j] = ""
			default:
				row[j] = fmt.Sprint(t)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// StateFIPS returns the two-digit FIPS code of a state given by name or
// abbreviation. The state table is fetched once per client.
func (c *Client) StateFIPS(ctx context.Context, state string) (string, error) {
	name, err := StateName(state)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	cached := c.stateFIPS
	c.mu.Unlock()

	if cached == nil {
		rows, err := c.query(ctx, url.Values{"get": {"NAME"}, "for": {"state:*"}})
		if err != nil {
			return "", fmt.Errorf("listing states: %w", err)
		}
		cached = make(map[string]string)
		if len(rows) > 0 {
			nameCol, fipsCol := column(rows[0], "NAME"), column(rows[0], "state")
			if nameCol < 0 || fipsCol < 0 {
				return "", fmt.Errorf("listing states: unexpected header %v", rows[0])
			}
			for _, r := range rows[1:] {
				cached[r[nameCol]] = r[fipsCol]
			}
		}
		c.mu.Lock()
		c.stateFIPS = cached
		c.mu.Unlock()
	}

	fips, ok := cached[name]
	if !ok {
		return "", fmt.Errorf("%w: no FIPS code for %s", ErrUnknownState, name)
	}
	return fips, nil
}

// PlaceFIPS finds the place whose name starts with city within state. When
// several places share the prefix the one named "<city> city" wins.
func (c *Client) PlaceFIPS(ctx context.Context, city, state string) (Place, error) {
	stateFIPS, err := c.StateFIPS(ctx, state)
	if err != nil {
		return Place{}, err
	}

	rows, err := c.query(ctx, url.Values{
		"get": {"NAME"},
		"for": {"place:*"},
		"in":  {"state:" + stateFIPS},
	})
	if err != nil {
		return Place{}, fmt.Errorf("listing places in %s: %w", state, err)
	}
	if len(rows) < 2 {
		return Place{}, fmt.Errorf("%w: %s, %s", ErrPlaceNotFound, city, state)
	}

	nameCol, placeCol := column(rows[0], "NAME"), column(rows[0], "place")
	if nameCol < 0 || placeCol < 0 {
		return Place{}, fmt.Errorf("listing places: unexpected header %v", rows[0])
	}

	var matches [][]string
	for _, r := range rows[1:] {
		if strings.HasPrefix(r[nameCol], city) {
			matches = append(matches, r)
		}
	}

	var match []string
	switch {
	case len(matches) == 1:
		match = matches[0]
	case len(matches) > 1:
		for _, r := range matches {
			if strings.HasPrefix(r[nameCol], city+" city") {
				match = r
				break
			}
		}
	}
	if match == nil {
		return Place{}, fmt.Errorf("%w: %s, %s (%d candidates)", ErrPlaceNotFound, city, state, len(matches))
	}

	return Place{
		Name:      match[nameCol],
		StateFIPS: stateFIPS,
		PlaceFIPS: match[placeCol],
	}, nil
}

func placeParams(get []string, p Place) url.Values {
	return url.Values{
		"get": {strings.Join(append([]string{"NAME"}, get...), ",")},
		"for": {"place:" + p.PlaceFIPS},
		"in":  {"state:" + p.StateFIPS},
	}
}

// CheckFIPS confirms the API knows the place
func (c *Client) CheckFIPS(ctx context.Context, p Place) error {
	if p.StateFIPS == "" || p.PlaceFIPS == "" {
		return fmt.Errorf("%w: incomplete FIPS %q/%q", ErrPlaceNotFound, p.StateFIPS, p.PlaceFIPS)
	}
	rows, err := c.query(ctx, placeParams(nil, p))
	if err != nil {
		return fmt.Errorf("checking FIPS %s/%s: %w", p.StateFIPS, p.PlaceFIPS, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("%w: FIPS %s/%s", ErrPlaceNotFound, p.StateFIPS, p.PlaceFIPS)
	}
	return nil
}

// AvailableVariables returns the subset of vars the API serves for the
// place. Variables are probed batchSize at a time; a batch rejected with an
// HTTP error is re-probed one variable at a time. Transport errors abort.
func (c *Client) AvailableVariables(ctx context.Context, vars []string, p Place, batchSize int) ([]string, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	available := make([]string, 0, len(vars))
	for i := 0; i < len(vars); i += batchSize {
		batch := vars[i:min(i+batchSize, len(vars))]

		_, err := c.query(ctx, placeParams(batch, p))
		if err == nil {
			available = append(available, batch...)
			continue
		}

		var se *httpx.StatusError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("probing variables: %w", err)
		}
		if len(batch) == 1 {
			logger.Debug("ACS variable unavailable", logger.Fields{
				"variable": batch[0],
				"place":    p.Name,
				"status":   se.StatusCode,
			})
			continue
		}
		sub, err := c.AvailableVariables(ctx, batch, p, 1)
		if err != nil {
			return nil, err
		}
		available = append(available, sub...)
	}
	return available, nil
}

// toRow zips the header with the first data row. Numeric strings become
// Float cells; annotation codes become missing.
func toRow(rows [][]string) (record.Row, error) {
	if len(rows) < 2 {
		return nil, ErrPlaceNotFound
	}
	header, values := rows[0], rows[1]
	row := make(record.Row, len(header))
	for i, h := range header {
		if i >= len(values) {
			row[h] = record.Missing()
			continue
		}
		row[h] = estimateCell(values[i])
	}
	return row, nil
}

func estimateCell(s string) record.Cell {
	if s == "" {
		return record.Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return record.Text(s)
	}
	if f <= annotationFloor {
		return record.Missing()
	}
	return record.Float(f)
}

// QueryPlace fetches vars for one place. Every requested variable is present
// in the returned row (missing when the API left it out).
func (c *Client) QueryPlace(ctx context.Context, vars []string, p Place) (record.Row, error) {
	rows, err := c.query(ctx, placeParams(vars, p))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", p.Name, err)
	}
	row, err := toRow(rows)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", p.Name, err)
	}
	for _, v := range vars {
		if _, ok := row[v]; !ok {
			row[v] = record.Missing()
		}
	}
	if name, ok := row["NAME"]; ok {
		row["NAME"] = record.Text(name.String())
	}
	return row, nil
}

// QueryCBSA fetches vars for a metropolitan or micropolitan statistical area
func (c *Client) QueryCBSA(ctx context.Context, cbsa string, vars []string) (record.Row, error) {
	rows, err := c.query(ctx, url.Values{
		"get": {strings.Join(append([]string{"NAME"}, vars...), ",")},
		"for": {cbsaGeography + ":" + cbsa},
	})
	if err != nil {
		return nil, fmt.Errorf("querying CBSA %s: %w", cbsa, err)
	}
	row, err := toRow(rows)
	if err != nil {
		return nil, fmt.Errorf("querying CBSA %s: %w", cbsa, err)
	}
	if name, ok := row["NAME"]; ok {
		row["NAME"] = record.Text(name.String())
	}
	return row, nil
}

// AreaEstimate is one statistical area's ACS 5-year row together with the
// cities that resolved to it
type AreaEstimate struct {
	Area
	ACSName string     // "Akron, OH Metro Area"
	Values  record.Row // keyed by variable code
}

// EstimateArea fetches vars for area. Variables the API left out are
// missing in Values.
func (c *Client) EstimateArea(ctx context.Context, area Area, vars []string) (AreaEstimate, error) {
	row, err := c.QueryCBSA(ctx, area.Code, vars)
	if err != nil {
		return AreaEstimate{}, err
	}
	values := make(record.Row, len(vars))
	for _, v := range vars {
		values[v] = row.Get(v)
	}
	return AreaEstimate{Area: area, ACSName: row.Text("NAME"), Values: values}, nil
}

// CityEstimate resolves a city to its place, drops variables the API does
// not serve there and returns the estimate row for every code in vars
func (c *Client) CityEstimate(ctx context.Context, city, state string, vars []string) (Estimate, error) {
	place, err := c.PlaceFIPS(ctx, city, state)
	if err != nil {
		return Estimate{}, err
	}
	if err := c.CheckFIPS(ctx, place); err != nil {
		return Estimate{}, err
	}

	available, err := c.AvailableVariables(ctx, vars, place, DefaultBatch)
	if err != nil {
		return Estimate{}, err
	}

	row, err := c.QueryPlace(ctx, available, place)
	if err != nil {
		return Estimate{}, err
	}

	values := make(record.Row, len(vars))
	for _, v := range vars {
		values[v] = row.Get(v)
	}
	return Estimate{
		PlaceName: row.Text("NAME"),
		City:      city,
		State:     state,
		Values:    values,
	}, nil
}
