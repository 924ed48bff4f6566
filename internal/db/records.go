package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/milb-data/internal/census"
	"github.com/pfrederiksen/milb-data/internal/city"
	"github.com/pfrederiksen/milb-data/internal/fred"
	"github.com/pfrederiksen/milb-data/internal/record"
	"github.com/pfrederiksen/milb-data/internal/team"
)

var (
	teamKeys = []string{"team", "league"}
	teamCols = []string{"division", "city", "state", "stadium", "capacity", "affiliate",
		"mascot", "table_index", "row_index", "lat", "lon"}

	cityKeys = []string{"city", "state"}
	cityCols = []string{"country", "county", "province", "metro_area", "elevation",
		"population_density", "urban_density", "csa_density", "fips_code",
		"year_founded_max", "year_founded_min", "area_sq_mi_max", "area_sq_mi_min",
		"population_max", "population_min", "gdp_millions_max", "gdp_millions_min",
		"gnis_id", "msa_code"}

	acsKeys = []string{"place_name", "city_name", "state_name"}

	cbsaKeys = []string{"cbsa_code"}
	cbsaCols = []string{"name", "acs_name", "type", "vintage", "cities", "acs_year"}

	observationKeys = []string{"series_id", "observation_date"}
	observationCols = []string{"value"}
)

func nullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// arguments are bound as plain driver values (nil, int64, float64, string)

func cellArg(c record.Cell) interface{} {
	v, _ := c.Value()
	return v
}

func intArg(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatArg(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// UpsertTeams writes teams keyed by (team, league)
func (d *DB) UpsertTeams(ctx context.Context, teams []team.Team) error {
	query := upsertSQL("teams", teamKeys, teamCols)
	return d.upsertBatch(ctx, "teams", query, len(teams), func(i int) []interface{} {
		t := teams[i]
		return []interface{}{
			t.Team, t.League,
			nullString(t.Division), t.City, t.State, nullString(t.Stadium), intArg(t.Capacity),
			nullString(t.Affiliate), nullString(t.Mascot), int64(t.TableIndex), int64(t.Index),
			floatArg(t.Lat), floatArg(t.Lon),
		}
	})
}

// UpsertCities writes cities keyed by (city, state)
func (d *DB) UpsertCities(ctx context.Context, cities []city.City) error {
	query := upsertSQL("cities", cityKeys, cityCols)
	return d.upsertBatch(ctx, "cities", query, len(cities), func(i int) []interface{} {
		c := cities[i]
		return []interface{}{
			c.City, c.State,
			nullString(c.Country), nullString(c.County), nullString(c.Province),
			nullString(c.MetroArea), nullString(c.Elevation), nullString(c.PopulationDensity),
			nullString(c.UrbanDensity), nullString(c.CSADensity), nullString(c.FIPSCode),
			cellArg(c.YearFoundedMax), cellArg(c.YearFoundedMin),
			cellArg(c.AreaSqMiMax), cellArg(c.AreaSqMiMin),
			cellArg(c.PopulationMax), cellArg(c.PopulationMin),
			cellArg(c.GDPMillionsMax), cellArg(c.GDPMillionsMin),
			cellArg(c.GNISID), cellArg(c.MSACode),
		}
	})
}

// UpsertACS writes ACS estimates keyed by (place_name, city_name,
// state_name). acsYear records the vintage of the estimates.
func (d *DB) UpsertACS(ctx context.Context, acsYear int, estimates []census.Estimate) error {
	cols := append([]string{"acs_year"}, acsColumns()...)
	query := upsertSQL("census_acs", acsKeys, cols)
	return d.upsertBatch(ctx, "census_acs", query, len(estimates), func(i int) []interface{} {
		e := estimates[i]
		args := make([]interface{}, 0, len(acsKeys)+len(cols))
		args = append(args, e.PlaceName, e.City, e.State, int64(acsYear))
		for _, v := range census.ACS5Variables {
			args = append(args, cellArg(e.Values.Get(v.Code)))
		}
		return args
	})
}

// UpsertCBSA writes statistical area estimates keyed by cbsa_code
func (d *DB) UpsertCBSA(ctx context.Context, acsYear int, estimates []census.AreaEstimate) error {
	cols := append(append([]string{}, cbsaCols...), acsColumns()...)
	query := upsertSQL("census_cbsa", cbsaKeys, cols)
	return d.upsertBatch(ctx, "census_cbsa", query, len(estimates), func(i int) []interface{} {
		e := estimates[i]
		args := make([]interface{}, 0, len(cbsaKeys)+len(cols))
		args = append(args, e.Code,
			nullString(e.Name), nullString(e.ACSName), nullString(e.Type), nullString(e.Vintage),
			nullString(strings.Join(e.Cities, "; ")), int64(acsYear))
		for _, v := range census.ACS5Variables {
			args = append(args, cellArg(e.Values.Get(v.Code)))
		}
		return args
	})
}

// UpsertObservations writes FRED observations keyed by (series_id, date)
func (d *DB) UpsertObservations(ctx context.Context, obs []fred.Observation) error {
	query := upsertSQL("fred_observations", observationKeys, observationCols)
	return d.upsertBatch(ctx, "fred_observations", query, len(obs), func(i int) []interface{} {
		o := obs[i]
		return []interface{}{o.SeriesID, o.Date.Format("2006-01-02"), cellArg(o.Value)}
	})
}

// TeamCities returns the distinct (city, state) pairs of stored teams in
// alphabetical order
func (d *DB) TeamCities(ctx context.Context) ([][2]string, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT DISTINCT city, state FROM teams
		WHERE city IS NOT NULL AND city <> '' AND state IS NOT NULL AND state <> ''
		ORDER BY state, city`)
	if err != nil {
		return nil, fmt.Errorf("listing team cities: %w", err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var c, s string
		if err := rows.Scan(&c, &s); err != nil {
			return nil, fmt.Errorf("scanning team city: %w", err)
		}
		out = append(out, [2]string{c, s})
	}
	return out, rows.Err()
}

// ListTeams returns every stored team
func (d *DB) ListTeams(ctx context.Context) ([]team.Team, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT team, league, division, city, state, stadium, capacity, affiliate,
			mascot, table_index, row_index, lat, lon
		FROM teams ORDER BY table_index, row_index`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var out []team.Team
	for rows.Next() {
		var (
			t                                             team.Team
			division, cityName, state, stadium, aff, masc sql.NullString
			capacity, tableIdx, rowIdx                    sql.NullInt64
			lat, lon                                      sql.NullFloat64
		)
		if err := rows.Scan(&t.Team, &t.League, &division, &cityName, &state, &stadium,
			&capacity, &aff, &masc, &tableIdx, &rowIdx, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		t.Division, t.City, t.State = division.String, cityName.String, state.String
		t.Stadium, t.Affiliate, t.Mascot = stadium.String, aff.String, masc.String
		t.TableIndex, t.Index = int(tableIdx.Int64), int(rowIdx.Int64)
		if capacity.Valid {
			v := capacity.Int64
			t.Capacity = &v
		}
		if lat.Valid && lon.Valid {
			la, lo := lat.Float64, lon.Float64
			t.Lat, t.Lon = &la, &lo
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CityMSACodes returns the MSA codes stored for cities, keyed by
// "City, State"
func (d *DB) CityMSACodes(ctx context.Context) (map[string]string, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT city, state, msa_code FROM cities WHERE msa_code IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("listing city MSA codes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var c, s string
		var code int64
		if err := rows.Scan(&c, &s, &code); err != nil {
			return nil, fmt.Errorf("scanning city MSA code: %w", err)
		}
		out[c+", "+s] = fmt.Sprintf("%05d", code)
	}
	return out, rows.Err()
}

// UpdatedOn returns the updated_on stamp of a city row
func (d *DB) UpdatedOn(ctx context.Context, cityName, state string) (time.Time, error) {
	var raw string
	err := d.sql.QueryRowContext(ctx,
		`SELECT updated_on FROM cities WHERE city = ? AND state = ?`, cityName, state).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading updated_on: %w", err)
	}
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_on %q: %w", raw, err)
	}
	return t, nil
}
