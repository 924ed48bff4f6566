package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/milb-data/internal/record"
)

const (
	bullet        = "•"
	mergedTopRow  = "mergedtoprow"
	infoboxLookup = "table[class*='infobox']"
)

// ExtractInfobox returns the key/value pairs of the first infobox table in
// doc. It reports false when doc is nil, when there is no infobox, or when the
// infobox has no usable header/value rows.
func ExtractInfobox(doc *goquery.Document) (record.Row, bool) {
	if doc == nil || doc.Selection == nil {
		return nil, false
	}
	table := doc.Find(infoboxLookup).First()
	if table.Length() == 0 {
		return nil, false
	}

	row := make(record.Row)
	prior := ""
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		hasHeader, hasValue := th.Length() > 0, td.Length() > 0

		// Section header for the bulleted rows that follow, e.g. "Area" or "Population"
		if hasHeader && !hasValue && tr.HasClass(mergedTopRow) {
			prior = CleanHeader(strippedText(th))
		}
		if !hasHeader || !hasValue {
			return
		}

		raw := strippedText(th)
		header := CleanHeader(raw)
		if strings.HasPrefix(raw, bullet) && prior != "" {
			header = prior + " " + header
		}
		row[header] = record.Text(CleanValue(strippedText(td)))
	})

	if len(row) == 0 {
		return nil, false
	}
	return row, true
}
