// Package repositories provides the persistence layer: a schemaless
// key-value store for credentials and settings, and SQLite-backed playlist
// snapshot storage.
//
// The key-value table enforces no schema; callers validate what they read
// and defend their own invariants.
package repositories
