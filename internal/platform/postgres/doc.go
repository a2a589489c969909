// Package postgres implements the store interfaces on top of PostgreSQL,
// using database/sql with the pgx driver. All SQL lives here; the rest of
// the application only sees the interfaces in internal/store.
package postgres
