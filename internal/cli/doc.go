// Package cli implements the command-line interface for milb-data.
//
// The cli package provides the Cobra-based CLI with one subcommand per
// collector (teams, cities, census, fred), a listing of stored teams sorted
// by league, state or city, and an offline infobox dump of saved pages. It
// loads configuration, wires the HTTP clients, page archive and SQLite sink
// into a pipeline.Runner and reports each run as text or JSON.
package cli
