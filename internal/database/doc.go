// Package database manages the Postgres connection pool and schema used by
// the snapshot archive.
package database
