// Package wiki extracts records from cached Wikipedia pages.
//
// ExtractInfobox turns the first "infobox" table of an article into a single
// flat row keyed by cleaned header text, folding bulleted sub-rows under the
// most recent merged section header. ExtractLeagues walks the Minor League
// Baseball leagues-and-teams list, pairing every wikitable with the heading
// above it and repairing the known City/State column irregularities of that
// page.
package wiki
