package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/milb-data/internal/record"
)

// Column names produced or repaired by ExtractLeagues
const (
	ColIndex      = "Index"
	ColLeague     = "League"
	ColTableIndex = "TableIndex"
	ColCity       = "City"
	ColState      = "State"
	ColProvince   = "Province"
	statePrefix   = "State/"
)

// ExcludedLeague is left out of league extraction entirely
const ExcludedLeague = "Dominican Summer League"

// CityColumnStates maps city columns that imply a single state to that state
var CityColumnStates = map[string]string{
	"City (all in Florida)":    "Florida",
	"City (all in California)": "California",
	"City (all in Arizona)":    "Arizona",
}

// FixedStateLeagues are leagues whose tables carry no state column at all
var FixedStateLeagues = map[string]string{
	"Arizona Fall League": "Arizona",
}

// Warning records a table that could not be fully repaired
type Warning struct {
	League     string
	TableIndex int
	Message    string
}

// ExtractLeagues parses every wikitable on the leagues-and-teams page into one
// frame. Each row is tagged with the heading above its table (League) and the
// table's sequence number (TableIndex, from 1). The result carries a
// contiguous Index column.
func ExtractLeagues(doc *goquery.Document) (*record.Frame, []Warning) {
	if doc == nil || doc.Selection == nil {
		return nil, nil
	}

	out := record.NewFrame(ColIndex)
	var warnings []Warning
	heading := ""
	tableIndex := 1

	doc.Find("h1, h2, h3, h4, table").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) != "table" {
			heading = strings.NewReplacer("\n", "", "\t", "").Replace(rawText(sel))
			return
		}
		if heading == ExcludedLeague {
			return
		}

		t := ParseTable(sel)
		if len(t.Rows) == 0 {
			warnings = append(warnings, Warning{League: heading, TableIndex: tableIndex, Message: "table has no data rows"})
			tableIndex++
			return
		}

		f := t.Frame()
		f.Set(ColLeague, record.Text(heading))
		f.Set(ColTableIndex, record.Int(int64(tableIndex)))
		warnings = append(warnings, repairLocation(f, heading, tableIndex)...)
		out.Append(f)
		tableIndex++
	})

	for i, row := range out.Rows {
		row[ColIndex] = record.Int(int64(i))
	}
	return out, warnings
}

// repairLocation applies the known City/State fixes for one table
func repairLocation(f *record.Frame, league string, tableIndex int) []Warning {
	var warnings []Warning
	resolved := false

	for _, col := range f.Columns {
		state, ok := CityColumnStates[col]
		if !ok {
			continue
		}
		f.Rename(col, ColCity)
		f.Set(ColState, record.Text(state))
		resolved = true
		break
	}

	if !resolved {
		if state, ok := FixedStateLeagues[league]; ok {
			f.Set(ColState, record.Text(state))
			resolved = true
		}
	}
	if !resolved && f.HasColumn(ColProvince) {
		f.Copy(ColProvince, ColState)
		resolved = true
	}
	if !resolved && !f.HasColumn(ColState) {
		if prefixed := f.ColumnsWithPrefix(statePrefix); len(prefixed) > 0 {
			f.Copy(prefixed[0], ColState)
			f.Drop(prefixed...)
		}
	}

	if !f.HasColumn(ColState) {
		warnings = append(warnings, Warning{League: league, TableIndex: tableIndex, Message: "no state column"})
	}
	if !f.HasColumn(ColCity) {
		warnings = append(warnings, Warning{League: league, TableIndex: tableIndex, Message: "no city column"})
	}

	trimColumn(f, ColCity)
	trimColumn(f, ColState)
	return warnings
}

func trimColumn(f *record.Frame, col string) {
	if !f.HasColumn(col) {
		return
	}
	for _, row := range f.Rows {
		v := row.Get(col)
		if v.IsMissing() {
			row[col] = record.Text("")
			continue
		}
		row[col] = record.Text(strings.TrimSpace(v.String()))
	}
}
