package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each dialect (SQLite, Postgres) owns its own migration files.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
