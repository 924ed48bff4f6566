package team

import (
	"strings"

	"github.com/pfrederiksen/milb-data/internal/normalize"
	"github.com/pfrederiksen/milb-data/internal/record"
	"github.com/pfrederiksen/milb-data/internal/wiki"
)

// Team is one row of the leagues-and-teams page
type Team struct {
	Index      int      `json:"index"`
	Team       string   `json:"team"`
	League     string   `json:"league"`
	Division   string   `json:"division,omitempty"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Stadium    string   `json:"stadium,omitempty"`
	Capacity   *int64   `json:"capacity,omitempty"`
	Affiliate  string   `json:"affiliate,omitempty"`
	TableIndex int      `json:"table_index"`
	Mascot     string   `json:"mascot,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// Location returns the "City, State" geocoding query for the team
func (t Team) Location() string {
	if t.State == "" {
		return t.City
	}
	return t.City + ", " + t.State
}

// column aliases seen across league tables, first present wins
var (
	teamColumns      = []string{"Team", "Team name", "Club"}
	divisionColumns  = []string{"Division", "Division.1"}
	stadiumColumns   = []string{"Stadium", "Ballpark", "Venue"}
	capacityColumns  = []string{"Capacity"}
	affiliateColumns = []string{"MLB affiliation", "MLB affiliate", "Affiliate", "Affiliation", "Major League affiliation"}
)

// FromFrame converts extracted league rows into teams. Rows without a team
// name (spacer or footnote rows) are skipped.
func FromFrame(f *record.Frame) []Team {
	if f == nil {
		return nil
	}
	teams := make([]Team, 0, f.Len())
	for _, row := range f.Rows {
		name := firstText(row, teamColumns)
		if name == "" {
			continue
		}
		idx, _ := row.Get(wiki.ColIndex).Integer()
		tableIdx, _ := row.Get(wiki.ColTableIndex).Integer()
		t := Team{
			Index:      int(idx),
			Team:       name,
			League:     row.Text(wiki.ColLeague),
			Division:   firstText(row, divisionColumns),
			City:       strings.TrimSpace(row.Text(wiki.ColCity)),
			State:      strings.TrimSpace(row.Text(wiki.ColState)),
			Stadium:    firstText(row, stadiumColumns),
			Affiliate:  firstText(row, affiliateColumns),
			TableIndex: int(tableIdx),
		}
		for _, c := range capacityColumns {
			if v, ok := normalize.Integer(row.Get(c)).Integer(); ok {
				t.Capacity = &v
				break
			}
		}
		t.Mascot = MascotName(t.Team, t.City)
		teams = append(teams, t)
	}
	return teams
}

// MascotName estimates the nickname of a team: the team name with the city
// removed, else its last word when there are at least two, else the name itself
func MascotName(team, city string) string {
	if city != "" && strings.Contains(team, city) {
		return strings.TrimSpace(strings.Replace(team, city, "", -1))
	}
	words := strings.Fields(team)
	if len(words) >= 2 {
		return words[len(words)-1]
	}
	return team
}

func firstText(row record.Row, columns []string) string {
	for _, c := range columns {
		if v := strings.TrimSpace(row.Text(c)); v != "" {
			return v
		}
	}
	return ""
}
