package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Cached record set, one row per session, scoped by account
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER NOT NULL,
			account_id TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			splits TEXT NOT NULL,
			total_duration INTEGER NOT NULL,
			average_pace REAL NOT NULL,
			calories REAL,
			pace_delta REAL,
			improved INTEGER NOT NULL DEFAULT 0,
			distance_km REAL NOT NULL,
			weather TEXT,
			condition TEXT,
			temperature_c REAL,
			body_weight_kg REAL,
			air_quality TEXT,
			memo TEXT,
			coach_id TEXT,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id, account_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_records_account_date ON records(account_id, date)`,

		// Unlocked badges and medals. Rows are only ever inserted; unlocks
		// are never revoked, even if the qualifying record is deleted.
		`CREATE TABLE IF NOT EXISTS achievements (
			account_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (account_id, kind, achievement_id)
		)`,

		// Running points counter. Accumulates at save time, never recomputed.
		`CREATE TABLE IF NOT EXISTS points (
			account_id TEXT PRIMARY KEY,
			total INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
