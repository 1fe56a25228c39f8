// Package store runs built queries against an existing SQLite database.
//
// Databases are opened read-only: the connection is made with mode=ro and
// PRAGMA query_only, so a statement that reached the store by mistake can
// never modify data.
//
// # Database Configuration
//
//   - mode=ro: The file must already exist and is never created
//   - query_only=ON: Writes are rejected by SQLite
//   - busy_timeout=5000: Wait for locks held by writers up to 5 seconds
//
// Parameters are passed with sql.Named, which go-sqlite3 binds to the
// @param_N placeholders the builder renders.
package store
