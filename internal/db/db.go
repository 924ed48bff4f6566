// Package db stores teams, cities, ACS estimates for cities and statistical
// areas, and FRED observations in SQLite.
//
// Every batch is written in one transaction through a single prepared
// upsert, so re-running a collector updates rows in place instead of
// duplicating them.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/milb-data/internal/logger"
)

var tables = []string{"teams", "cities", "census_acs", "census_cbsa", "fred_observations"}

// DB wraps the SQLite handle
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
// "~/" is expanded and the parent directory created.
func Open(ctx context.Context, path string) (*DB, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	d := &DB{sql: conn}
	if err := d.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.sql.Close()
}

// Migrate creates the tables and triggers that do not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		createTeamsSQL,
		createCitiesSQL,
		createACSSQL(),
		createCBSASQL(),
		createObservationsSQL,
	}
	for _, table := range tables {
		stmts = append(stmts, updateTriggerSQL(table))
	}
	for _, s := range stmts {
		if _, err := d.sql.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// upsertBatch runs one prepared statement per record inside a transaction
func (d *DB) upsertBatch(ctx context.Context, table, query string, n int, args func(i int) []interface{}) error {
	if n == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning %s upsert: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing %s upsert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("upserting %s row %d: %w", table, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s upsert: %w", table, err)
	}

	logger.Info("Upserted rows", logger.Fields{"table": table, "rows": n})
	logger.DefaultMetrics().AddCounter("db."+table+".upserted", int64(n))
	return nil
}

// Count returns the number of rows in a table
func (d *DB) Count(ctx context.Context, table string) (int, error) {
	if !slices.Contains(tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}
