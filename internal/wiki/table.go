package wiki

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/milb-data/internal/record"
)

// maxSpan caps rowspan/colspan values taken from markup
const maxSpan = 1000

// Table is an HTML table flattened into a header and rectangular rows
type Table struct {
	Header []string
	Rows   [][]string
}

type gridCell struct {
	text   string
	header bool
}

type pendingSpan struct {
	cell gridCell
	left int
}

type sourceRow struct {
	sel   *goquery.Selection
	thead bool
}

// ParseTable flattens a table element. Row and column spans are expanded so
// every row has one entry per column. Rows in <thead>, or leading rows made
// only of <th> cells, form the header; otherwise the first row does.
func ParseTable(table *goquery.Selection) Table {
	grid, theadRows := expandSpans(directRows(table))
	if len(grid) == 0 {
		return Table{}
	}

	headerRows := theadRows
	if headerRows == 0 {
		for headerRows < len(grid) && allHeader(grid[headerRows]) {
			headerRows++
		}
	}
	if headerRows == 0 {
		headerRows = 1
	}
	if headerRows > len(grid) {
		headerRows = len(grid)
	}

	width := 0
	for _, r := range grid {
		if len(r) > width {
			width = len(r)
		}
	}

	t := Table{Header: headerLabels(grid[:headerRows], width)}
	for _, r := range grid[headerRows:] {
		row := make([]string, width)
		for i, c := range r {
			row[i] = c.text
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Frame converts the table into a frame of text cells. Empty cells are missing.
func (t Table) Frame() *record.Frame {
	f := record.NewFrame(t.Header...)
	for _, r := range t.Rows {
		row := make(record.Row, len(t.Header))
		for i, col := range t.Header {
			if i < len(r) && r[i] != "" {
				row[col] = record.Text(r[i])
			} else {
				row[col] = record.Missing()
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

// directRows returns the rows that belong to table itself, not to nested tables
func directRows(table *goquery.Selection) []sourceRow {
	var rows []sourceRow
	table.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "tr":
			rows = append(rows, sourceRow{sel: child})
		case "thead", "tbody", "tfoot":
			isHead := goquery.NodeName(child) == "thead"
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				rows = append(rows, sourceRow{sel: tr, thead: isHead})
			})
		}
	})
	return rows
}

func expandSpans(rows []sourceRow) ([][]gridCell, int) {
	var grid [][]gridCell
	theadRows := 0
	pending := map[int]*pendingSpan{}

	takePending := func(out []gridCell, col int) ([]gridCell, bool) {
		p, ok := pending[col]
		if !ok {
			return out, false
		}
		out = append(out, p.cell)
		p.left--
		if p.left == 0 {
			delete(pending, col)
		}
		return out, true
	}

	for _, src := range rows {
		var out []gridCell
		col := 0
		src.sel.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			for {
				var took bool
				if out, took = takePending(out, col); !took {
					break
				}
				col++
			}
			gc := gridCell{text: cellText(cell), header: goquery.NodeName(cell) == "th"}
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			for k := 0; k < colspan; k++ {
				out = append(out, gc)
				if rowspan > 1 {
					pending[col] = &pendingSpan{cell: gc, left: rowspan - 1}
				}
				col++
			}
		})
		for len(pending) > 0 {
			var took bool
			if out, took = takePending(out, col); !took {
				if !pendingAfter(pending, col) {
					break
				}
				out = append(out, gridCell{})
			}
			col++
		}
		if len(out) == 0 {
			continue
		}
		grid = append(grid, out)
		if src.thead {
			theadRows++
		}
	}
	return grid, theadRows
}

func pendingAfter(pending map[int]*pendingSpan, col int) bool {
	for c := range pending {
		if c > col {
			return true
		}
	}
	return false
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), ";")))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

func allHeader(row []gridCell) bool {
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if !c.header {
			return false
		}
	}
	return true
}

// headerLabels folds header rows into one label per column. Labels repeated
// down a column (from rowspan) are kept once, distinct ones join with a space.
func headerLabels(rows [][]gridCell, width int) []string {
	labels := make([]string, width)
	for i := 0; i < width; i++ {
		var parts []string
		for _, r := range rows {
			if i >= len(r) || r[i].text == "" {
				continue
			}
			if len(parts) > 0 && parts[len(parts)-1] == r[i].text {
				continue
			}
			parts = append(parts, r[i].text)
		}
		labels[i] = strings.Join(parts, " ")
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	return dedupe(labels)
}

// dedupe suffixes repeated labels with .1, .2, ...
func dedupe(labels []string) []string {
	seen := make(map[string]int, len(labels))
	taken := make(map[string]bool, len(labels))
	for _, l := range labels {
		taken[l] = true
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		n := seen[l]
		seen[l] = n + 1
		if n == 0 {
			out[i] = l
			continue
		}
		name := fmt.Sprintf("%s.%d", l, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", l, n)
		}
		seen[l] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
