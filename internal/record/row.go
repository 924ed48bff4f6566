package record

import (
	"strings"
)

// Row maps column names to cells. Absent columns read as missing.
type Row map[string]Cell

// Get returns the cell for column, or a missing cell
func (r Row) Get(column string) Cell {
	if r == nil {
		return Cell{}
	}
	return r[column]
}

// Text returns the string form of a column
func (r Row) Text(column string) string {
	return r.Get(column).String()
}

// Has reports whether the row holds the column, even if its cell is missing
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Frame is an ordered set of columns with rows keyed by those columns
type Frame struct {
	Columns []string
	Rows    []Row
}

// NewFrame creates a frame with the given column order
func NewFrame(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// HasColumn reports whether the frame declares the column
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnsWithPrefix returns declared columns starting with prefix, in order
func (f *Frame) ColumnsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Columns {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// AddColumn declares a column if it is not already present
func (f *Frame) AddColumn(name string) {
	if !f.HasColumn(name) {
		f.Columns = append(f.Columns, name)
	}
}

// Set assigns the same cell to column on every row, declaring it if needed
func (f *Frame) Set(column string, value Cell) {
	f.AddColumn(column)
	for _, row := range f.Rows {
		row[column] = value
	}
}

// Copy assigns column dst from column src on every row
func (f *Frame) Copy(src, dst string) {
	f.AddColumn(dst)
	for _, row := range f.Rows {
		row[dst] = row.Get(src)
	}
}

// Rename moves column src to dst, keeping its position
func (f *Frame) Rename(src, dst string) {
	if src == dst || !f.HasColumn(src) {
		return
	}
	if f.HasColumn(dst) {
		f.Copy(src, dst)
		f.Drop(src)
		return
	}
	for i, c := range f.Columns {
		if c == src {
			f.Columns[i] = dst
		}
	}
	for _, row := range f.Rows {
		if v, ok := row[src]; ok {
			row[dst] = v
			delete(row, src)
		}
	}
}

// Drop removes columns from the frame and every row
func (f *Frame) Drop(columns ...string) {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}
	kept := f.Columns[:0]
	for _, c := range f.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	f.Columns = kept
	for _, row := range f.Rows {
		for c := range drop {
			delete(row, c)
		}
	}
}

// Append concatenates other onto f. Columns are unioned in first-seen order.
func (f *Frame) Append(other *Frame) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		f.AddColumn(c)
	}
	f.Rows = append(f.Rows, other.Rows...)
}
