// Package pipeline runs the collectors end to end: fetch, extract,
// normalize and store.
//
// Every collector walks its items sequentially. A failure on one item (a
// city page that will not load, a place the Census API does not know) is
// logged, recorded in the Result and skipped; the remaining items still go
// into one batch upsert at the end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/milb-data/internal/census"
	"github.com/pfrederiksen/milb-data/internal/city"
	"github.com/pfrederiksen/milb-data/internal/fred"
	"github.com/pfrederiksen/milb-data/internal/geocode"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/scraper"
	"github.com/pfrederiksen/milb-data/internal/storage"
	"github.com/pfrederiksen/milb-data/internal/team"
	"github.com/pfrederiksen/milb-data/internal/wiki"
)

// TeamSink stores teams
type TeamSink interface {
	UpsertTeams(ctx context.Context, teams []team.Team) error
}

// CitySink stores cities
type CitySink interface {
	UpsertCities(ctx context.Context, cities []city.City) error
}

// ACSSink stores ACS estimates
type ACSSink interface {
	UpsertACS(ctx context.Context, acsYear int, estimates []census.Estimate) error
}

// AreaSink stores ACS estimates for statistical areas
type AreaSink interface {
	UpsertCBSA(ctx context.Context, acsYear int, estimates []census.AreaEstimate) error
}

// ObservationSink stores FRED observations
type ObservationSink interface {
	UpsertObservations(ctx context.Context, obs []fred.Observation) error
}

// Location is a host city
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

func (l Location) String() string {
	return l.City + ", " + l.State
}

// Locations converts (city, state) pairs
func Locations(pairs [][2]string) []Location {
	out := make([]Location, len(pairs))
	for i, p := range pairs {
		out[i] = Location{City: p[0], State: p[1]}
	}
	return out
}

// Result summarizes one collector run
type Result struct {
	Processed int           `json:"processed"`
	Skipped   []Location    `json:"skipped,omitempty"`
	Failed    []Location    `json:"failed,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	Duration  time.Duration `json:"duration"`
}

func (r *Result) fail(loc Location, stage string, err error) {
	logger.Error("Item failed", logger.Fields{
		"stage": stage,
		"city":  loc.City,
		"state": loc.State,
	}, err)
	logger.IncrCounter(stage + ".failed")
	r.Failed = append(r.Failed, loc)
}

func (r *Result) skip(loc Location, stage, reason string) {
	logger.Warn("Item skipped", logger.Fields{
		"stage":  stage,
		"city":   loc.City,
		"state":  loc.State,
		"reason": reason,
	})
	logger.IncrCounter(stage + ".skipped")
	r.Skipped = append(r.Skipped, loc)
}

// Runner holds the clients the collectors use. Collectors whose client is
// nil return an error when run.
type Runner struct {
	Scraper      *scraper.Scraper
	CensusClient *census.Client
	Geocoder     *census.Geocoder
	FREDClient   *fred.Client
	Resolver     *geocode.Resolver

	// Refresh re-downloads pages even when an archived copy exists
	Refresh bool
	// ACSYear selects the CBSA delineation for FRED lookups
	ACSYear int
}

// Teams scrapes the leagues-and-teams page, geocodes each team's city when a
// resolver is configured and upserts the teams
func (r *Runner) Teams(ctx context.Context, sink TeamSink) (Result, []team.Team, error) {
	start := time.Now()
	var res Result
	if r.Scraper == nil {
		return res, nil, errors.New("teams: no scraper configured")
	}

	doc, err := r.Scraper.Document(ctx, storage.KindTeams, scraper.TeamsURL, r.Refresh)
	if err != nil {
		return res, nil, fmt.Errorf("teams page: %w", err)
	}

	frame, warnings := wiki.ExtractLeagues(doc)
	for _, w := range warnings {
		logger.Warn("League table irregular", logger.Fields{
			"league":      w.League,
			"table_index": w.TableIndex,
			"message":     w.Message,
		})
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s (table %d): %s", w.League, w.TableIndex, w.Message))
	}

	teams := team.FromFrame(frame)
	if r.Resolver != nil {
		for i := range teams {
			if err := ctx.Err(); err != nil {
				return res, nil, err
			}
			lat, lon, err := r.Resolver.Coordinates(ctx, teams[i].City, teams[i].State)
			if err != nil {
				res.fail(Location{teams[i].City, teams[i].State}, "geocode", err)
				continue
			}
			teams[i].Lat, teams[i].Lon = lat, lon
		}
	}
	res.Processed = len(teams)

	if err := sink.UpsertTeams(ctx, teams); err != nil {
		return res, teams, err
	}
	res.Duration = time.Since(start)
	logger.Info("Teams collected", logger.Fields{
		"teams":    len(teams),
		"warnings": len(warnings),
		"duration": res.Duration.String(),
	})
	return res, teams, nil
}

// Cities scrapes each city's article, reduces its infobox and upserts the
// cities
func (r *Runner) Cities(ctx context.Context, locs []Location, sink CitySink) (Result, []city.City, error) {
	start := time.Now()
	var res Result
	if r.Scraper == nil {
		return res, nil, errors.New("cities: no scraper configured")
	}

	var cities []city.City
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return res, nil, err
		}
		doc, err := r.Scraper.Document(ctx, storage.KindCity, city.PageURL(loc.City, loc.State), r.Refresh)
		if err != nil {
			res.fail(loc, "cities", err)
			continue
		}
		infobox, ok := wiki.ExtractInfobox(doc)
		if !ok {
			res.skip(loc, "cities", "no infobox")
			continue
		}
		cities = append(cities, city.Build(loc.City, loc.State, infobox))
		logger.IncrCounter("cities.processed")
	}
	res.Processed = len(cities)

	if err := sink.UpsertCities(ctx, cities); err != nil {
		return res, cities, err
	}
	res.Duration = time.Since(start)
	logger.Info("Cities collected", logger.Fields{
		"cities":   len(cities),
		"failed":   len(res.Failed),
		"skipped":  len(res.Skipped),
		"duration": res.Duration.String(),
	})
	return res, cities, nil
}

// Census collects ACS estimates for each city. Cities outside the United
// States are skipped.
func (r *Runner) Census(ctx context.Context, locs []Location, sink ACSSink) (Result, error) {
	start := time.Now()
	var res Result
	if r.CensusClient == nil {
		return res, errors.New("census: no ACS client configured")
	}

	vars := census.VariableCodes()
	var estimates []census.Estimate
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		est, err := r.CensusClient.CityEstimate(ctx, loc.City, loc.State, vars)
		if errors.Is(err, census.ErrUnknownState) {
			res.skip(loc, "census", "not a US state")
			continue
		}
		if err != nil {
			res.fail(loc, "census", err)
			continue
		}
		estimates = append(estimates, est)
		logger.IncrCounter("census.processed")
	}
	res.Processed = len(estimates)

	if err := sink.UpsertACS(ctx, r.CensusClient.Year(), estimates); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	logger.Info("ACS estimates collected", logger.Fields{
		"places":   len(estimates),
		"failed":   len(res.Failed),
		"skipped":  len(res.Skipped),
		"duration": res.Duration.String(),
	})
	return res, nil
}

// CensusAreas groups the cities by statistical area and collects ACS
// estimates for each area. Cities in no area are skipped; when an area's
// query fails each of its cities is recorded as failed. Processed counts
// areas.
func (r *Runner) CensusAreas(ctx context.Context, locs []Location, sink AreaSink) (Result, error) {
	start := time.Now()
	var res Result
	if r.CensusClient == nil || r.Geocoder == nil {
		return res, errors.New("census: ACS client and CBSA geocoder required")
	}

	pairs := make([][2]string, len(locs))
	byLabel := make(map[string]Location, len(locs))
	for i, loc := range locs {
		pairs[i] = [2]string{loc.City, loc.State}
		byLabel[loc.String()] = loc
	}
	areas, err := r.Geocoder.ResolveCBSAs(ctx, pairs, r.CensusClient.Year())
	if err != nil {
		return res, fmt.Errorf("resolving areas: %w", err)
	}

	grouped := make(map[string]bool, len(locs))
	for _, area := range areas {
		for _, label := range area.Cities {
			grouped[label] = true
		}
	}
	for _, loc := range locs {
		if !grouped[loc.String()] {
			res.skip(loc, "census_cbsa", "no statistical area")
		}
	}

	vars := census.VariableCodes()
	var estimates []census.AreaEstimate
	for _, area := range areas {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		est, err := r.CensusClient.EstimateArea(ctx, area, vars)
		if err != nil {
			for _, label := range area.Cities {
				res.fail(byLabel[label], "census_cbsa", err)
			}
			continue
		}
		estimates = append(estimates, est)
		logger.IncrCounter("census_cbsa.processed")
	}
	res.Processed = len(estimates)

	if err := sink.UpsertCBSA(ctx, r.CensusClient.Year(), estimates); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	logger.Info("ACS area estimates collected", logger.Fields{
		"areas":    len(estimates),
		"failed":   len(res.Failed),
		"skipped":  len(res.Skipped),
		"duration": res.Duration.String(),
	})
	return res, nil
}

// FRED resolves each city to its metropolitan area and collects the area's
// GDP series. Areas shared by several cities are fetched once.
func (r *Runner) FRED(ctx context.Context, locs []Location, sink ObservationSink) (Result, error) {
	start := time.Now()
	var res Result
	if r.FREDClient == nil || r.Geocoder == nil {
		return res, errors.New("fred: FRED client and CBSA geocoder required")
	}

	seen := make(map[string]bool)
	var obs []fred.Observation
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		cbsa, ok, err := r.Geocoder.LookupCBSA(ctx, loc.City, loc.State, r.ACSYear)
		if err != nil {
			res.fail(loc, "fred", err)
			continue
		}
		if !ok {
			res.skip(loc, "fred", "no statistical area")
			continue
		}
		series := fred.MetroGDPSeries(cbsa.Code)
		if fetched, ok := seen[series]; ok {
			if fetched {
				res.Processed++
			} else {
				res.fail(loc, "fred", fmt.Errorf("series %s unavailable", series))
			}
			continue
		}

		got, err := r.FREDClient.Observations(ctx, series)
		seen[series] = err == nil
		if err != nil {
			res.fail(loc, "fred", err)
			continue
		}
		obs = append(obs, got...)
		res.Processed++
	}

	if err := sink.UpsertObservations(ctx, obs); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	logger.Info("FRED series collected", logger.Fields{
		"series":       len(seen),
		"observations": len(obs),
		"failed":       len(res.Failed),
		"duration":     res.Duration.String(),
	})
	return res, nil
}
