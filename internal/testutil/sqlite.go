// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed fixture.sql
var fixtureSQL string

// pragmas mirror what a production SQLite connection would run with.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// OpenFixtureDB opens an in-memory SQLite database seeded with the users,
// products and orders fixture.
//
// The database is closed when the test ends.
func OpenFixtureDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := OpenFixture()
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// OpenFixture is OpenFixtureDB for callers without a testing.TB.
func OpenFixture() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(fixtureSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	return db, nil
}

// FixtureFile writes the fixture to a SQLite database file under t.TempDir
// and returns its path.
func FixtureFile(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture file: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(fixtureSQL); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return path
}

// QueryRows runs query with args and returns every row as column → value.
func QueryRows(t testing.TB, db *sql.DB, query string, args ...any) []map[string]any {
	t.Helper()

	rows, err := db.Query(query, args...)
	if err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			t.Fatalf("scan: %v", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return out
}
