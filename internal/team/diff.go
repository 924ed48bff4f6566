package team

import (
	"sort"
)

// Key identifies a team across scrapes, matching the teams table's unique key
func (t Team) Key() string {
	return t.Team + "|" + t.League
}

// Change is one field that differs between two scrapes of the same team
type Change struct {
	Team     string `json:"team"`
	League   string `json:"league"`
	Field    string `json:"field"` // "city", "state", "stadium", "affiliate", "division"
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DiffResult contains the results of comparing two team lists
type DiffResult struct {
	Added   []Team   `json:"added,omitempty"`
	Removed []Team   `json:"removed,omitempty"`
	Changed []Change `json:"changed,omitempty"`
}

// Empty reports whether the lists were identical
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares the current scrape against the previously stored teams
func Diff(previous, current []Team) DiffResult {
	var result DiffResult

	prev := make(map[string]Team, len(previous))
	for _, t := range previous {
		prev[t.Key()] = t
	}
	seen := make(map[string]bool, len(current))

	for _, t := range current {
		seen[t.Key()] = true
		old, exists := prev[t.Key()]
		if !exists {
			result.Added = append(result.Added, t)
			continue
		}
		result.Changed = append(result.Changed, DetectChanges(old, t)...)
	}
	for _, t := range previous {
		if !seen[t.Key()] {
			result.Removed = append(result.Removed, t)
		}
	}

	Sort(result.Added, SortByLeague)
	Sort(result.Removed, SortByLeague)
	sort.SliceStable(result.Changed, func(i, j int) bool {
		if result.Changed[i].Team != result.Changed[j].Team {
			return result.Changed[i].Team < result.Changed[j].Team
		}
		return result.Changed[i].Field < result.Changed[j].Field
	})
	return result
}

// DetectChanges compares two scrapes of the same team
func DetectChanges(previous, current Team) []Change {
	fields := []struct {
		name     string
		old, new string
	}{
		{"affiliate", previous.Affiliate, current.Affiliate},
		{"city", previous.City, current.City},
		{"division", previous.Division, current.Division},
		{"stadium", previous.Stadium, current.Stadium},
		{"state", previous.State, current.State},
	}

	var changes []Change
	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		changes = append(changes, Change{
			Team:     current.Team,
			League:   current.League,
			Field:    f.name,
			OldValue: f.old,
			NewValue: f.new,
		})
	}
	return changes
}
