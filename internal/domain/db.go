package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// Each implementation (SQLite, MongoDB) owns its own schema or index
// setup, so the whole backend is swappable behind the repositories.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Users() UserRepository
	Engineers() EngineerRepository
}
