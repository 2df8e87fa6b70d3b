package store

import (
	"database/sql"
	"fmt"
)

// NewTestStore creates a Store for testing with an in-memory database,
// with migrations applied. This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) (*Store, error) {
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: sqlDB}, nil
}
