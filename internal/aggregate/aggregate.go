// Package aggregate reduces groups of synonymous infobox columns into
// canonical typed columns.
//
// Wikipedia city infoboxes describe the same quantity under many labels
// ("Founded", "Incorporated", "Charter", ...). A Group names those labels,
// the normalizer that parses them and how the parsed values are reduced:
// an independent min and max for ordinal quantities, or the first value found
// for identifiers.
package aggregate

import (
	"github.com/pfrederiksen/milb-data/internal/normalize"
	"github.com/pfrederiksen/milb-data/internal/record"
)

// Kind selects how a group is reduced
type Kind int

const (
	// MinMax writes <name>_min and <name>_max
	MinMax Kind = iota
	// First writes <name> from the first non-missing column in declared order
	First
)

// Group is a named set of synonym columns
type Group struct {
	Name      string
	Columns   []string
	Kind      Kind
	Normalize func(record.Cell) record.Cell
}

// MaxColumn is the output column holding the group maximum
func (g Group) MaxColumn() string {
	return g.Name + "_max"
}

// MinColumn is the output column holding the group minimum
func (g Group) MinColumn() string {
	return g.Name + "_min"
}

// OutputColumns lists the canonical columns a group produces
func (g Group) OutputColumns() []string {
	if g.Kind == First {
		return []string{g.Name}
	}
	return []string{g.MaxColumn(), g.MinColumn()}
}

// Reduce applies every group to a copy of row. Source columns are removed and
// only the canonical columns remain. Groups whose source columns are all absent
// are skipped, so reducing an already reduced row changes nothing.
func Reduce(row record.Row, groups []Group) record.Row {
	out := row.Clone()
	for _, g := range groups {
		if !present(out, g.Columns) {
			continue
		}
		switch g.Kind {
		case First:
			out[g.Name] = first(out, g)
		default:
			lo, hi := minMax(out, g)
			out[g.MinColumn()] = lo
			out[g.MaxColumn()] = hi
		}
		for _, c := range g.Columns {
			delete(out, c)
		}
	}
	return out
}

// OutputColumns lists every canonical column produced by groups, in order
func OutputColumns(groups []Group) []string {
	var cols []string
	for _, g := range groups {
		cols = append(cols, g.OutputColumns()...)
	}
	return cols
}

func present(row record.Row, columns []string) bool {
	for _, c := range columns {
		if row.Has(c) {
			return true
		}
	}
	return false
}

func first(row record.Row, g Group) record.Cell {
	for _, c := range g.Columns {
		if !row.Has(c) {
			continue
		}
		if v := g.Normalize(row[c]); !v.IsMissing() {
			return v
		}
	}
	return record.Missing()
}

// minMax returns the smallest and largest parsed values. Each keeps the
// kind produced by the normalizer.
func minMax(row record.Row, g Group) (record.Cell, record.Cell) {
	var lo, hi record.Cell
	var loN, hiN float64
	found := false
	for _, c := range g.Columns {
		if !row.Has(c) {
			continue
		}
		v := g.Normalize(row[c])
		n, ok := v.Number()
		if !ok {
			continue
		}
		if !found || n < loN {
			lo, loN = v, n
		}
		if !found || n > hiN {
			hi, hiN = v, n
		}
		found = true
	}
	return lo, hi
}

// CityGroups are the synonym groups applied to city infobox rows
var CityGroups = []Group{
	{
		Name: "year_founded",
		Columns: []string{
			"First settled", "Founded", "Named", "Incorporated", "Established",
			"First settlement", "Charter", "Chartered", "Adopted", "Foundation",
			"Founding", "City Charter", "Laid out", "Laid Out",
			"Incorporated as a town", "Incorporated as a city",
			"Incorporated as a village", "Incorporation", "Constituted",
			"Municipal corporation",
		},
		Kind:      MinMax,
		Normalize: normalize.Year,
	},
	{
		Name: "area_sq_mi",
		Columns: []string{
			"Area City", "Area Urban", "Area Metro", "Area CSA",
			"Area Censusdesignated place", "Area Federal capital city",
			"Area City and provincial capital", "Area Total", "Area Land",
		},
		Kind:      MinMax,
		Normalize: normalize.AreaSqMi,
	},
	{
		Name: "population",
		Columns: []string{
			"Population City", "Population Urban", "Population Federal capital city",
			"Population Metro", "Population CSA", "Population Region",
			"Population TriCities", "Population Censusdesignated place",
			"Population City and provincial capital", "Population Total",
		},
		Kind:      MinMax,
		Normalize: normalize.Population,
	},
	{
		Name:      "gdp_millions",
		Columns:   []string{"GDP Metro", "GDP", "GDP MSA", "GDP Total", "GDP Greensboro"},
		Kind:      MinMax,
		Normalize: normalize.GDP,
	},
	{
		Name:      "gnis_id",
		Columns:   []string{"GNIS ID", "GNIS IDs", "GNIS feature ID"},
		Kind:      First,
		Normalize: normalize.GNIS,
	},
	{
		Name:      "msa_code",
		Columns:   []string{"MSA", "CBSA", "Metropolitan statistical area"},
		Kind:      First,
		Normalize: normalize.MSA,
	},
}
