package db

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/milb-data/internal/census"
)

// Every table carries created_on/updated_on. Upserts refresh updated_on
// explicitly; the triggers cover rows edited by hand.

const createTeamsSQL = `
CREATE TABLE IF NOT EXISTS teams (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	team TEXT NOT NULL,
	league TEXT NOT NULL,
	division TEXT,
	city TEXT,
	state TEXT,
	stadium TEXT,
	capacity INTEGER,
	affiliate TEXT,
	mascot TEXT,
	table_index INTEGER,
	row_index INTEGER,
	lat REAL,
	lon REAL,
	created_on TEXT DEFAULT CURRENT_TIMESTAMP,
	updated_on TEXT DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (team, league)
);`

const createCitiesSQL = `
CREATE TABLE IF NOT EXISTS cities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	country TEXT,
	county TEXT,
	province TEXT,
	metro_area TEXT,
	elevation TEXT,
	population_density TEXT,
	urban_density TEXT,
	csa_density TEXT,
	fips_code TEXT,
	year_founded_max INTEGER,
	year_founded_min INTEGER,
	area_sq_mi_max REAL,
	area_sq_mi_min REAL,
	population_max REAL,
	population_min REAL,
	gdp_millions_max REAL,
	gdp_millions_min REAL,
	gnis_id TEXT,
	msa_code INTEGER,
	created_on TEXT DEFAULT CURRENT_TIMESTAMP,
	updated_on TEXT DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (city, state)
);`

const createObservationsSQL = `
CREATE TABLE IF NOT EXISTS fred_observations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	series_id TEXT NOT NULL,
	observation_date TEXT NOT NULL,
	value REAL,
	created_on TEXT DEFAULT CURRENT_TIMESTAMP,
	updated_on TEXT DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (series_id, observation_date)
);`

// acsColumns are the lower-cased variable codes in storage order
func acsColumns() []string {
	cols := make([]string, len(census.ACS5Variables))
	for i, v := range census.ACS5Variables {
		cols[i] = strings.ToLower(v.Code)
	}
	return cols
}

func createACSSQL() string {
	var b strings.Builder
	b.WriteString("\nCREATE TABLE IF NOT EXISTS census_acs (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	b.WriteString("\tplace_name TEXT NOT NULL,\n\tcity_name TEXT NOT NULL,\n\tstate_name TEXT NOT NULL,\n")
	b.WriteString("\tacs_year INTEGER,\n")
	for _, c := range acsColumns() {
		fmt.Fprintf(&b, "\t%s REAL,\n", c)
	}
	b.WriteString("\tcreated_on TEXT DEFAULT CURRENT_TIMESTAMP,\n")
	b.WriteString("\tupdated_on TEXT DEFAULT CURRENT_TIMESTAMP,\n")
	b.WriteString("\tUNIQUE (place_name, city_name, state_name)\n);")
	return b.String()
}

// createCBSASQL stores one row per statistical area; cities lists the host
// cities that resolved to it, joined with "; "
func createCBSASQL() string {
	var b strings.Builder
	b.WriteString("\nCREATE TABLE IF NOT EXISTS census_cbsa (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	b.WriteString("\tcbsa_code TEXT NOT NULL,\n\tname TEXT,\n\tacs_name TEXT,\n\ttype TEXT,\n\tvintage TEXT,\n\tcities TEXT,\n")
	b.WriteString("\tacs_year INTEGER,\n")
	for _, c := range acsColumns() {
		fmt.Fprintf(&b, "\t%s REAL,\n", c)
	}
	b.WriteString("\tcreated_on TEXT DEFAULT CURRENT_TIMESTAMP,\n")
	b.WriteString("\tupdated_on TEXT DEFAULT CURRENT_TIMESTAMP,\n")
	b.WriteString("\tUNIQUE (cbsa_code)\n);")
	return b.String()
}

func updateTriggerSQL(table string) string {
	return fmt.Sprintf(`
CREATE TRIGGER IF NOT EXISTS trg_%[1]s_updated
AFTER UPDATE ON %[1]s
FOR EACH ROW
WHEN NEW.updated_on = OLD.updated_on
BEGIN
	UPDATE %[1]s SET updated_on = CURRENT_TIMESTAMP WHERE id = OLD.id;
END;`, table)
}

// upsertSQL builds INSERT ... ON CONFLICT DO UPDATE refreshing every
// non-key column and updated_on
func upsertSQL(table string, keys, cols []string) string {
	all := append(append([]string{}, keys...), cols...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	sets = append(sets, "updated_on = CURRENT_TIMESTAMP")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s;",
		table,
		strings.Join(all, ", "),
		placeholders,
		strings.Join(keys, ", "),
		strings.Join(sets, ", "))
}
