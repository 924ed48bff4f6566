// Package normalize converts noisy infobox and wikitable text into typed cells.
//
// Every normalizer is total: it accepts a missing, numeric, text or timestamp
// cell and returns either a typed cell or a missing one. Nothing here returns
// an error; a value that matches no pattern is simply missing.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/milb-data/internal/record"
)

// KM2ToMI2 converts square kilometers to square miles
const KM2ToMI2 = 0.386102

// Plausible year bounds for numeric cells
const (
	MinYear = 1200
	MaxYear = 2100
)

var (
	yearPattern   = regexp.MustCompile(`\b(1[2-9]\d{2}|20\d{2})\b`)
	sqMiPattern   = regexp.MustCompile(`([\d.]+)\s*(sq\s*mi|mi²|mi2|square\s*miles?)`)
	sqKmPattern   = regexp.MustCompile(`([\d.]+)\s*(km²|km2|sq\s*km|square\s*kilometers?)`)
	numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?|\.\d+`)
	intPattern    = regexp.MustCompile(`\d[\d,]*`)
	billionWord   = regexp.MustCompile(`\b(billions?|bn)\b`)
	millionWord   = regexp.MustCompile(`\b(millions?|mn)\b`)
	currencyLead  = regexp.MustCompile(`^(us\$|\$|€|£|¥)\s*`)
)

// Year returns the most recent plausible year mentioned in a cell
func Year(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if t, ok := c.Timestamp(); ok {
		return record.Int(int64(t.Year()))
	}
	if n, ok := c.Number(); ok && n >= MinYear && n <= MaxYear {
		return record.Int(int64(n))
	}

	matches := yearPattern.FindAllString(c.String(), -1)
	if len(matches) == 0 {
		return record.Missing()
	}
	best := int64(0)
	for _, m := range matches {
		y, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		if y > best {
			best = y
		}
	}
	return record.Int(best)
}

// AreaSqMi returns an area in square miles, converting square kilometers
// when no square-mile figure is present. Numeric cells are taken as square miles.
func AreaSqMi(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if n, ok := c.Number(); ok {
		return record.Float(n)
	}

	text := strings.ReplaceAll(strings.ToLower(c.String()), ",", "")
	if m := sqMiPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1], 1)
	}
	if m := sqKmPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1], KM2ToMI2)
	}
	return record.Missing()
}

// Population returns a head count. Bare numbers inside the plausible year
// range come back as integers because such cells usually hold a census date.
func Population(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if c.IsNumeric() {
		return c
	}

	text := strings.TrimSpace(strings.ToLower(c.String()))
	n, ok := leadingNumber(text)
	if !ok {
		return record.Missing()
	}

	switch {
	case billionWord.MatchString(text):
		return record.Float(n * 1e9)
	case millionWord.MatchString(text):
		return record.Float(n * 1e6)
	}
	if n >= MinYear && n <= MaxYear {
		return record.Int(int64(n))
	}
	return record.Float(n)
}

// GDP returns an output figure in millions of currency units
func GDP(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if n, ok := c.Number(); ok {
		return record.Float(n / 1e6)
	}

	text := strings.TrimSpace(strings.ToLower(c.String()))
	text = currencyLead.ReplaceAllString(text, "")
	n, ok := leadingNumber(text)
	if !ok {
		return record.Missing()
	}

	switch {
	case billionWord.MatchString(text):
		return record.Float(n * 1e3)
	case millionWord.MatchString(text):
		return record.Float(n)
	}
	return record.Float(n / 1e6)
}

// GNIS returns the first identifier of a comma-separated list
func GNIS(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if i, ok := c.Integer(); ok {
		return record.Text(strconv.FormatInt(i, 10))
	}

	text := strings.TrimSpace(strings.ToLower(c.String()))
	first := strings.TrimSpace(strings.SplitN(text, ",", 2)[0])
	if first == "" {
		return record.Missing()
	}
	return record.Text(first)
}

// MSA returns a statistical area code when the cell is a plain integer
func MSA(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if i, ok := c.Integer(); ok {
		return record.Int(i)
	}
	if n, ok := c.Number(); ok {
		if math.IsInf(n, 0) {
			return record.Missing()
		}
		return record.Int(int64(n))
	}

	i, err := strconv.ParseInt(strings.TrimSpace(c.String()), 10, 64)
	if err != nil {
		return record.Missing()
	}
	return record.Int(i)
}

// Integer returns the first integer in a cell, ignoring thousands separators.
// Used for stadium capacities such as "10,000".
func Integer(c record.Cell) record.Cell {
	if c.IsMissing() {
		return record.Missing()
	}
	if i, ok := c.Integer(); ok {
		return record.Int(i)
	}
	if n, ok := c.Number(); ok {
		return record.Int(int64(n))
	}

	m := intPattern.FindString(c.String())
	if m == "" {
		return record.Missing()
	}
	i, err := strconv.ParseInt(strings.ReplaceAll(m, ",", ""), 10, 64)
	if err != nil {
		return record.Missing()
	}
	return record.Int(i)
}

// leadingNumber returns the first numeric token in text
func leadingNumber(text string) (float64, bool) {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string, factor float64) record.Cell {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return record.Missing()
	}
	return record.Float(n * factor)
}
