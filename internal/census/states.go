package census

import (
	"fmt"
	"strings"
)

// StateAbbr maps state names (and the District of Columbia) to their postal
// abbreviations
var StateAbbr = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS",
	"Missouri": "MO", "Montana": "MT", "Nebraska": "NE", "Nevada": "NV",
	"New Hampshire": "NH", "New Jersey": "NJ", "New Mexico": "NM", "New York": "NY",
	"North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK",
	"Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA", "West Virginia": "WV",
	"Wisconsin": "WI", "Wyoming": "WY", "District of Columbia": "DC",
}

var stateName = func() map[string]string {
	m := make(map[string]string, len(StateAbbr))
	for name, abbr := range StateAbbr {
		m[abbr] = name
	}
	return m
}()

// abbrByFold keys StateAbbr by the lower-cased, space-collapsed name
var abbrByFold = func() map[string]string {
	m := make(map[string]string, len(StateAbbr))
	for name, abbr := range StateAbbr {
		m[foldName(name)] = abbr
	}
	return m
}()

func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Abbreviate returns the postal abbreviation of a full state name in any case
func Abbreviate(name string) (string, bool) {
	abbr, ok := abbrByFold[foldName(name)]
	return abbr, ok
}

// NormalizeState accepts a full state name or an abbreviation in any case and
// returns the abbreviation
func NormalizeState(in string) (string, error) {
	in = strings.TrimSpace(in)
	if abbr, ok := Abbreviate(in); ok {
		return abbr, nil
	}
	if _, ok := stateName[strings.ToUpper(in)]; ok {
		return strings.ToUpper(in), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, in)
}

// StateName returns the full name for a state given as a name or an
// abbreviation
func StateName(in string) (string, error) {
	abbr, err := NormalizeState(in)
	if err != nil {
		return "", err
	}
	return stateName[abbr], nil
}
