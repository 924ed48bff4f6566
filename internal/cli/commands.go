package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/milb-data/internal/census"
	"github.com/pfrederiksen/milb-data/internal/city"
	"github.com/pfrederiksen/milb-data/internal/fred"
	"github.com/pfrederiksen/milb-data/internal/geocode"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/pipeline"
	"github.com/pfrederiksen/milb-data/internal/scraper"
	"github.com/pfrederiksen/milb-data/internal/team"
	"github.com/pfrederiksen/milb-data/internal/wiki"
)

func report(name string, res pipeline.Result) *OutputResult {
	out := &OutputResult{
		Collector: name,
		CheckedAt: time.Now().UTC(),
		Result:    res,
	}
	if flagVerbose {
		snap := logger.MetricsSnapshot()
		out.Metrics = &snap
	}
	return out
}

// finish prints a collector report and maps failures to ErrPartial
func finish(cmd *cobra.Command, out *OutputResult) error {
	format, _ := outputFormat()
	if err := WriteOutput(cmd.OutOrStdout(), out, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	res := out.Result
	if len(res.Failed) > 0 {
		return fmt.Errorf("%s: %d of %d: %w", out.Collector, len(res.Failed), res.Processed+len(res.Failed)+len(res.Skipped), ErrPartial)
	}
	return nil
}

// storedLocations returns the host cities of the stored teams
func storedLocations(cmd *cobra.Command, a *app) ([]pipeline.Location, error) {
	pairs, err := a.db.TeamCities(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, errors.New("no teams stored, run 'milb-data teams' first")
	}
	return pipeline.Locations(pairs), nil
}

func newTeamsCmd() *cobra.Command {
	var withGeocode bool
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Scrape the leagues-and-teams page and store every team",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			previous, err := a.db.ListTeams(ctx)
			if err != nil {
				return err
			}
			r := &pipeline.Runner{Scraper: a.scraper(), Refresh: flagRefresh}

			var cache *geocode.Cache
			if withGeocode {
				cache, err = geocode.LoadCache(a.geocodeCachePath())
				if err != nil {
					return fmt.Errorf("loading geocode cache: %w", err)
				}
				// the public Nominatim instance allows one request per second
				nominatim := geocode.NewNominatim(geocode.WithClient(newClient(a.cfg, time.Second)))
				r.Resolver = geocode.NewResolver(nominatim, cache)
			}

			res, teams, err := r.Teams(ctx, a.db)
			if cache != nil {
				if saveErr := geocode.SaveCache(a.geocodeCachePath(), cache); saveErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: saving geocode cache: %v\n", saveErr)
				}
			}
			if err != nil {
				return err
			}
			out := report("teams", res)
			changes := team.Diff(previous, teams)
			out.Changes = &changes
			return finish(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&withGeocode, "geocode", false, "Look up team city coordinates with Nominatim")
	return cmd
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "Scrape each stored team's host city article and store its infobox",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			locs, err := storedLocations(cmd, a)
			if err != nil {
				return err
			}
			r := &pipeline.Runner{Scraper: a.scraper(), Refresh: flagRefresh}
			res, _, err := r.Cities(ctx, locs, a.db)
			if err != nil {
				return err
			}
			return finish(cmd, report("cities", res))
		},
	}
}

func newCensusCmd() *cobra.Command {
	var year int
	var byArea bool
	cmd := &cobra.Command{
		Use:   "census",
		Short: "Collect ACS 5-year estimates for each stored host city",
		Long: `Collect ACS 5-year estimates for each stored host city. With --cbsa the
cities are grouped by metropolitan or micropolitan statistical area and one
estimate is stored per area instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("year") {
				a.cfg.ACSYear = year
			}
			if byArea {
				if _, err := census.CBSAVintage(a.cfg.ACSYear); err != nil {
					return err
				}
			}
			locs, err := storedLocations(cmd, a)
			if err != nil {
				return err
			}
			r := &pipeline.Runner{CensusClient: census.NewClient(a.api, a.cfg.CensusKey, a.cfg.ACSYear)}

			if byArea {
				r.Geocoder = census.NewGeocoder(a.api)
				res, err := r.CensusAreas(ctx, locs, a.db)
				if err != nil {
					return err
				}
				return finish(cmd, report("census_cbsa", res))
			}

			res, err := r.Census(ctx, locs, a.db)
			if err != nil {
				return err
			}
			return finish(cmd, report("census", res))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "ACS 5-year vintage (default from ACS_YEAR)")
	cmd.Flags().BoolVar(&byArea, "cbsa", false, "Collect one estimate per statistical area instead of per city")
	return cmd
}

func newFREDCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "fred",
		Short: "Collect metropolitan GDP series from FRED for each stored host city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.FREDKey == "" {
				return fmt.Errorf("%w: set FRED_API_KEY", fred.ErrNoAPIKey)
			}
			if cmd.Flags().Changed("year") {
				a.cfg.ACSYear = year
			}
			if _, err := census.CBSAVintage(a.cfg.ACSYear); err != nil {
				return err
			}
			locs, err := storedLocations(cmd, a)
			if err != nil {
				return err
			}
			r := &pipeline.Runner{
				Geocoder:   census.NewGeocoder(a.api),
				FREDClient: fred.NewClient(a.api, a.cfg.FREDKey),
				ACSYear:    a.cfg.ACSYear,
			}
			res, err := r.FRED(ctx, locs, a.db)
			if err != nil {
				return err
			}
			return finish(cmd, report("fred", res))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "ACS year selecting the CBSA delineation (default from ACS_YEAR)")
	return cmd
}

func newListCmd() *cobra.Command {
	var sortFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := team.ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			teams, err := a.db.ListTeams(ctx)
			if err != nil {
				return err
			}
			team.Sort(teams, order)

			format, _ := outputFormat()
			return WriteTeams(cmd.OutOrStdout(), teams, format, flagVerbose)
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", "league", "Sort order: league, state or city")
	return cmd
}

func newInfoboxCmd() *cobra.Command {
	var cityName, state string
	cmd := &cobra.Command{
		Use:   "infobox <file>",
		Short: "Print the infobox of a saved Wikipedia page",
		Long: `Print the infobox of a saved Wikipedia page. With --city and --state
the infobox is reduced to the stored city columns instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading page: %w", err)
			}
			doc, err := scraper.Parse(body)
			if err != nil {
				return err
			}
			row, ok := wiki.ExtractInfobox(doc)
			if !ok {
				return fmt.Errorf("%s: no infobox found", args[0])
			}

			format, _ := outputFormat()
			if cityName != "" && state != "" {
				return WriteCity(cmd.OutOrStdout(), city.Build(cityName, state, row), format)
			}
			return WriteRow(cmd.OutOrStdout(), row, format)
		},
	}
	cmd.Flags().StringVar(&cityName, "city", "", "City name used to build the city record")
	cmd.Flags().StringVar(&state, "state", "", "State used to build the city record")
	return cmd
}
