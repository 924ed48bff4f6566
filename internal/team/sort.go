package team

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available listing orders
type SortOrder string

const (
	SortByLeague SortOrder = "league"
	SortByState  SortOrder = "state"
	SortByCity   SortOrder = "city"
)

// ParseSortOrder validates a --sort flag value
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByLeague, SortByState, SortByCity:
		return o, nil
	case "":
		return SortByLeague, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'league', 'state' or 'city')", s)
}

// Sort orders teams in place
func Sort(teams []Team, order SortOrder) {
	switch order {
	case SortByState:
		sort.SliceStable(teams, func(i, j int) bool {
			if teams[i].State != teams[j].State {
				return teams[i].State < teams[j].State
			}
			// Same state: fall back to city
			return lessByCity(teams[i], teams[j])
		})
	case SortByCity:
		sort.SliceStable(teams, func(i, j int) bool {
			return lessByCity(teams[i], teams[j])
		})
	default:
		sort.SliceStable(teams, func(i, j int) bool {
			return lessByLeague(teams[i], teams[j])
		})
	}
}

// lessByLeague keeps page order: table sequence, then row index
func lessByLeague(a, b Team) bool {
	if a.TableIndex != b.TableIndex {
		return a.TableIndex < b.TableIndex
	}
	return a.Index < b.Index
}

func lessByCity(a, b Team) bool {
	ca, cb := strings.ToLower(a.City), strings.ToLower(b.City)
	if ca != cb {
		return ca < cb
	}
	return strings.ToLower(a.Team) < strings.ToLower(b.Team)
}
