package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/milb-data/internal/city"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/pipeline"
	"github.com/pfrederiksen/milb-data/internal/record"
	"github.com/pfrederiksen/milb-data/internal/team"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output after a collector run
type OutputResult struct {
	Collector string           `json:"collector"`
	CheckedAt time.Time        `json:"checked_at"`
	Result    pipeline.Result  `json:"result"`
	Changes   *team.DiffResult `json:"changes,omitempty"`
	Metrics   *logger.Snapshot `json:"metrics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeText(w io.Writer, result *OutputResult) error {
	res := result.Result
	fmt.Fprintf(w, "%s: %d processed, %d skipped, %d failed in %s\n",
		result.Collector, res.Processed, len(res.Skipped), len(res.Failed), res.Duration.Round(time.Millisecond))

	for _, loc := range res.Skipped {
		fmt.Fprintf(w, "  SKIPPED: %s\n", loc)
	}
	for _, loc := range res.Failed {
		fmt.Fprintf(w, "  FAILED: %s\n", loc)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warning)
	}

	if result.Changes != nil {
		writeChanges(w, *result.Changes)
	}
	if result.Metrics != nil {
		writeMetrics(w, *result.Metrics)
	}
	return nil
}

func writeChanges(w io.Writer, d team.DiffResult) {
	if d.Empty() {
		fmt.Fprintln(w, "No team changes since the last run.")
		return
	}
	for _, t := range d.Added {
		fmt.Fprintf(w, "  NEW: %s (%s): %s\n", t.Team, t.League, t.Location())
	}
	for _, t := range d.Removed {
		fmt.Fprintf(w, "  REMOVED: %s (%s)\n", t.Team, t.League)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "  CHANGED: %s %s: %q -> %q\n", c.Team, c.Field, c.OldValue, c.NewValue)
	}
}

func writeMetrics(w io.Writer, snap logger.Snapshot) {
	if len(snap.Counters) == 0 && len(snap.Timings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nMetrics:")
	for _, name := range snap.CounterNames() {
		fmt.Fprintf(w, "  %-24s %d\n", name, snap.Counters[name])
	}

	timings := make([]string, 0, len(snap.Timings))
	for name := range snap.Timings {
		timings = append(timings, name)
	}
	sort.Strings(timings)
	for _, name := range timings {
		t := snap.Timings[name]
		fmt.Fprintf(w, "  %-24s n=%d avg=%s max=%s\n", name, t.Count,
			t.Average.Round(time.Millisecond), t.Max.Round(time.Millisecond))
	}
}

// WriteTeams lists teams. The text form is one team per line; verbose adds
// the stadium and coordinates.
func WriteTeams(w io.Writer, teams []team.Team, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if teams == nil {
			teams = []team.Team{}
		}
		return writeJSON(w, teams)
	case FormatText:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if len(teams) == 0 {
		fmt.Fprintln(w, "No teams stored.")
		return nil
	}
	for _, t := range teams {
		fmt.Fprintf(w, "%s (%s): %s\n", t.Team, t.League, t.Location())
		if !verbose {
			continue
		}
		if t.Stadium != "" {
			fmt.Fprintf(w, "     Stadium: %s\n", t.Stadium)
		}
		if t.Affiliate != "" {
			fmt.Fprintf(w, "     Affiliate: %s\n", t.Affiliate)
		}
		if t.Lat != nil && t.Lon != nil {
			fmt.Fprintf(w, "     Coordinates: %.4f, %.4f\n", *t.Lat, *t.Lon)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d teams\n", len(teams))
	return nil
}

// WriteRow prints an infobox row with its labels in alphabetical order
func WriteRow(w io.Writer, row record.Row, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, row)
	case FormatText:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	labels := make([]string, 0, len(row))
	for label := range row {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(w, "%s: %s\n", label, row.Get(label))
	}
	return nil
}

// WriteCity prints a reduced city record
func WriteCity(w io.Writer, c city.City, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatText:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	fmt.Fprintf(w, "%s, %s\n", c.City, c.State)
	fields := []struct {
		label string
		value record.Cell
	}{
		{"Founded", c.YearFoundedMin},
		{"Incorporated (latest)", c.YearFoundedMax},
		{"Area sq mi (min)", c.AreaSqMiMin},
		{"Area sq mi (max)", c.AreaSqMiMax},
		{"Population (min)", c.PopulationMin},
		{"Population (max)", c.PopulationMax},
		{"GDP millions (min)", c.GDPMillionsMin},
		{"GDP millions (max)", c.GDPMillionsMax},
		{"GNIS ID", c.GNISID},
		{"MSA code", c.MSACode},
	}
	for _, f := range fields {
		if f.value.IsMissing() {
			continue
		}
		fmt.Fprintf(w, "  %-22s %s\n", f.label+":", f.value)
	}
	if c.County != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "County:", c.County)
	}
	if c.MetroArea != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Metro area:", c.MetroArea)
	}
	return nil
}
