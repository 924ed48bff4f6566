package census

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/pfrederiksen/milb-data/internal/httpx"
	"github.com/pfrederiksen/milb-data/internal/logger"
)

const DefaultGeocoderURL = "https://geocoding.geo.census.gov/geocoder/geographies/onelineaddress"

// vintageRange maps an ACS 5-year release to the CBSA delineation it uses
type vintageRange struct {
	start, end int
	vintage    string
}

var acsToCBSAVintage = []vintageRange{
	{2020, 2024, "2020"},
	{2015, 2019, "2010"},
	{2010, 2014, "2010"},
	{2005, 2009, "2000"},
}

// CBSAVintage returns the CBSA delineation vintage for an ACS year
func CBSAVintage(acsYear int) (string, error) {
	for _, r := range acsToCBSAVintage {
		if r.start <= acsYear && acsYear <= r.end {
			return r.vintage, nil
		}
	}
	return "", fmt.Errorf("no CBSA vintage mapping for ACS year %d", acsYear)
}

// CBSA is a core-based statistical area a city falls in
type CBSA struct {
	Code    string `json:"cbsa_code"`
	Name    string `json:"cbsa_name"`
	Vintage string `json:"cbsa_vintage"`
	Type    string `json:"type"` // "metro" or "micro"
}

var cbsaLayers = []struct {
	layer, kind string
}{
	{"CBSA", "metro"},
	{"MICRO", "micro"},
}

type geographiesResponse struct {
	Result struct {
		Geographies map[string][]struct {
			GEOID string `json:"GEOID"`
			NAME  string `json:"NAME"`
		} `json:"geographies"`
	} `json:"result"`
}

// Geocoder resolves cities to statistical areas with the Census geocoder
type Geocoder struct {
	http    *httpx.Client
	baseURL string
}

// NewGeocoder creates a geocoder against the public Census endpoint
func NewGeocoder(http *httpx.Client) *Geocoder {
	if http == nil {
		http = httpx.New()
	}
	return &Geocoder{http: http, baseURL: DefaultGeocoderURL}
}

// SetBaseURL points the geocoder at another endpoint
func (g *Geocoder) SetBaseURL(u string) {
	g.baseURL = u
}

// LookupCBSA finds the metropolitan area of "city, state", falling back to
// the micropolitan layer. ok is false when neither layer matches. HTTP
// failures on a layer count as no match; a canceled context is returned.
func (g *Geocoder) LookupCBSA(ctx context.Context, city, state string, acsYear int) (CBSA, bool, error) {
	vintage, err := CBSAVintage(acsYear)
	if err != nil {
		return CBSA{}, false, err
	}

	for _, l := range cbsaLayers {
		params := url.Values{
			"address":   {city + ", " + state},
			"benchmark": {"Public_AR_Current"},
			"vintage":   {"Current_" + vintage},
			"layers":    {l.layer},
			"format":    {"json"},
		}

		var resp geographiesResponse
		if err := g.http.GetJSON(ctx, g.baseURL, params, &resp); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return CBSA{}, false, ctxErr
			}
			var se *httpx.StatusError
			if !errors.As(err, &se) {
				logger.Warn("CBSA lookup failed", logger.Fields{
					"city":  city,
					"state": state,
					"layer": l.layer,
					"error": err.Error(),
				})
			}
			continue
		}

		if geos := resp.Result.Geographies[l.layer]; len(geos) > 0 {
			return CBSA{
				Code:    geos[0].GEOID,
				Name:    geos[0].NAME,
				Vintage: vintage,
				Type:    l.kind,
			}, true, nil
		}
	}
	return CBSA{}, false, nil
}

// Area groups the cities resolved to one CBSA
type Area struct {
	CBSA
	Cities []string `json:"cities"`
}

// ResolveCBSAs looks up every city and groups them by CBSA code, in first
// seen order. Cities without a match are left out.
func (g *Geocoder) ResolveCBSAs(ctx context.Context, cities [][2]string, acsYear int) ([]Area, error) {
	var areas []Area
	index := make(map[string]int)
	for _, cs := range cities {
		cbsa, ok, err := g.LookupCBSA(ctx, cs[0], cs[1], acsYear)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		label := cs[0] + ", " + cs[1]
		if i, seen := index[cbsa.Code]; seen {
			areas[i].Cities = append(areas[i].Cities, label)
			continue
		}
		index[cbsa.Code] = len(areas)
		areas = append(areas, Area{CBSA: cbsa, Cities: []string{label}})
	}
	return areas, nil
}
