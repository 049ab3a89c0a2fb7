// Package sqlite records ingestion batches in a local SQLite database
// (~/.artisan/data/history.db by default) through modernc.org/sqlite, so
// the binary stays free of cgo.
//
// The schema comes from the numbered scripts in migrations/. Each
// NNN_name.up.sql runs once, in its own transaction, and the last applied
// number is kept in PRAGMA user_version. The database runs in WAL mode
// with a busy timeout, so the CLI and a running server can share it.
package sqlite
