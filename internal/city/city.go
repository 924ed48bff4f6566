// Package city builds normalized host-city records from Wikipedia infoboxes.
package city

import (
	"strings"

	"github.com/pfrederiksen/milb-data/internal/aggregate"
	"github.com/pfrederiksen/milb-data/internal/record"
)

// WikiBaseURL is the article root used for city pages
const WikiBaseURL = "https://en.wikipedia.org/wiki/"

// City is one normalized host city
type City struct {
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country,omitempty"`
	County            string `json:"county,omitempty"`
	Province          string `json:"province,omitempty"`
	MetroArea         string `json:"metro_area,omitempty"`
	Elevation         string `json:"elevation,omitempty"`
	PopulationDensity string `json:"population_density,omitempty"`
	UrbanDensity      string `json:"urban_density,omitempty"`
	CSADensity        string `json:"csa_density,omitempty"`
	FIPSCode          string `json:"fips_code,omitempty"`

	YearFoundedMax record.Cell `json:"year_founded_max"`
	YearFoundedMin record.Cell `json:"year_founded_min"`
	AreaSqMiMax    record.Cell `json:"area_sq_mi_max"`
	AreaSqMiMin    record.Cell `json:"area_sq_mi_min"`
	PopulationMax  record.Cell `json:"population_max"`
	PopulationMin  record.Cell `json:"population_min"`
	GDPMillionsMax record.Cell `json:"gdp_millions_max"`
	GDPMillionsMin record.Cell `json:"gdp_millions_min"`
	GNISID         record.Cell `json:"gnis_id"`
	MSACode        record.Cell `json:"msa_code"`
}

// passthrough infobox labels per output field, first non-empty wins
var passthrough = []struct {
	labels []string
	set    func(*City, string)
}{
	{[]string{"Country"}, func(c *City, v string) { c.Country = v }},
	{[]string{"County", "Counties", "Parish"}, func(c *City, v string) { c.County = v }},
	{[]string{"Province"}, func(c *City, v string) { c.Province = v }},
	{[]string{"Metro", "Metropolitan statistical area", "MSA", "CSA", "Urban Area"}, func(c *City, v string) { c.MetroArea = v }},
	{[]string{"Elevation"}, func(c *City, v string) { c.Elevation = v }},
	{[]string{"Population Density"}, func(c *City, v string) { c.PopulationDensity = v }},
	{[]string{"Population Urbandensity", "Population Urban density"}, func(c *City, v string) { c.UrbanDensity = v }},
	{[]string{"Population CSA density"}, func(c *City, v string) { c.CSADensity = v }},
	{[]string{"FIPS code"}, func(c *City, v string) { c.FIPSCode = v }},
}

// Build projects an infobox row onto the city columns and reduces its
// synonym groups with aggregate.CityGroups
func Build(name, state string, infobox record.Row) City {
	c := City{
		City:  strings.TrimSpace(name),
		State: strings.TrimSpace(state),
	}
	for _, p := range passthrough {
		for _, label := range p.labels {
			if v := strings.TrimSpace(infobox.Text(label)); v != "" {
				p.set(&c, v)
				break
			}
		}
	}

	reduced := aggregate.Reduce(infobox, aggregate.CityGroups)
	c.YearFoundedMax = reduced.Get("year_founded_max")
	c.YearFoundedMin = reduced.Get("year_founded_min")
	c.AreaSqMiMax = reduced.Get("area_sq_mi_max")
	c.AreaSqMiMin = reduced.Get("area_sq_mi_min")
	c.PopulationMax = reduced.Get("population_max")
	c.PopulationMin = reduced.Get("population_min")
	c.GDPMillionsMax = reduced.Get("gdp_millions_max")
	c.GDPMillionsMin = reduced.Get("gdp_millions_min")
	c.GNISID = reduced.Get("gnis_id")
	c.MSACode = reduced.Get("msa_code")
	return c
}

// PageURL returns the article URL for a "City, State" page
func PageURL(name, state string) string {
	title := strings.ReplaceAll(strings.TrimSpace(name), " ", "_") + ",_" + strings.ReplaceAll(strings.TrimSpace(state), " ", "_")
	return WikiBaseURL + title
}
