package record

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind identifies the type of value held by a Cell
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindFloat
	KindInt
	KindTime
)

// Cell is a single table value. The zero value is missing.
type Cell struct {
	kind Kind
	text string
	num  float64
	i    int64
	t    time.Time
}

// Missing returns an empty cell
func Missing() Cell {
	return Cell{}
}

// Text returns a text cell
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Float returns a float cell. NaN is stored as missing.
func Float(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{kind: KindFloat, num: f}
}

// Int returns an integer cell
func Int(i int64) Cell {
	return Cell{kind: KindInt, i: i}
}

// Time returns a timestamp cell
func Time(t time.Time) Cell {
	return Cell{kind: KindTime, t: t}
}

// Kind reports the cell kind
func (c Cell) Kind() Kind {
	return c.kind
}

// IsMissing reports whether the cell carries no value
func (c Cell) IsMissing() bool {
	return c.kind == KindMissing
}

// IsNumeric reports whether the cell is a float or an integer
func (c Cell) IsNumeric() bool {
	return c.kind == KindFloat || c.kind == KindInt
}

// Number returns the cell as a float64. Only numeric cells report ok.
func (c Cell) Number() (float64, bool) {
	switch c.kind {
	case KindFloat:
		return c.num, true
	case KindInt:
		return float64(c.i), true
	}
	return 0, false
}

// Integer returns the integer value of an Int cell
func (c Cell) Integer() (int64, bool) {
	if c.kind != KindInt {
		return 0, false
	}
	return c.i, true
}

// Timestamp returns the value of a Time cell
func (c Cell) Timestamp() (time.Time, bool) {
	if c.kind != KindTime {
		return time.Time{}, false
	}
	return c.t, true
}

// String renders the cell as text. Missing cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindFloat:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindTime:
		return c.t.Format(time.RFC3339)
	}
	return ""
}

// Value implements driver.Valuer so cells can be bound directly as SQL arguments
func (c Cell) Value() (driver.Value, error) {
	switch c.kind {
	case KindText:
		return c.text, nil
	case KindFloat:
		return c.num, nil
	case KindInt:
		return c.i, nil
	case KindTime:
		return c.t.UTC().Format(time.RFC3339), nil
	}
	return nil, nil
}

// MarshalJSON encodes missing cells as null and numbers as JSON numbers
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindText:
		return json.Marshal(c.text)
	case KindFloat:
		if math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	case KindInt:
		return json.Marshal(c.i)
	case KindTime:
		return json.Marshal(c.t.UTC().Format(time.RFC3339))
	}
	return []byte("null"), nil
}

// Equal reports whether two cells have the same kind and value
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindText:
		return c.text == o.text
	case KindFloat:
		return c.num == o.num
	case KindInt:
		return c.i == o.i
	case KindTime:
		return c.t.Equal(o.t)
	}
	return true
}
