package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// ListRecords returns the cached record set for an account, ordered by
// date descending (ties broken by id descending, newest save first).
func (s *Store) ListRecords(accountID string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, account_id, date, start_time, splits,
			total_duration, average_pace, calories, pace_delta, improved,
			distance_km, weather, condition, temperature_c, body_weight_kg,
			air_quality, memo, coach_id
		FROM records
		WHERE account_id = ?
		ORDER BY date DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ReplaceRecords atomically rewrites the full cached set for an account.
// Used after every reconciliation: the merged set is the new truth.
func (s *Store) ReplaceRecords(accountID string, records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("clearing cached records: %w", err)
	}

	for _, r := range records {
		if err := upsertRecordTx(tx, &r); err != nil {
			return fmt.Errorf("caching record %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertRecord inserts or replaces a single cached record.
func (s *Store) UpsertRecord(r *Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertRecordTx(tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertRecordTx(tx *sql.Tx, r *Record) error {
	splits, err := json.Marshal(r.Splits)
	if err != nil {
		return fmt.Errorf("encoding splits: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO records (
			id, account_id, date, start_time, splits,
			total_duration, average_pace, calories, pace_delta, improved,
			distance_km, weather, condition, temperature_c, body_weight_kg,
			air_quality, memo, coach_id, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id, account_id) DO UPDATE SET
			date = excluded.date,
			start_time = excluded.start_time,
			splits = excluded.splits,
			total_duration = excluded.total_duration,
			average_pace = excluded.average_pace,
			calories = excluded.calories,
			pace_delta = excluded.pace_delta,
			improved = excluded.improved,
			distance_km = excluded.distance_km,
			weather = excluded.weather,
			condition = excluded.condition,
			temperature_c = excluded.temperature_c,
			body_weight_kg = excluded.body_weight_kg,
			air_quality = excluded.air_quality,
			memo = excluded.memo,
			coach_id = excluded.coach_id,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.ID, r.AccountID, r.Date, r.StartTime, string(splits),
		r.TotalDuration, r.AveragePace, r.Calories, r.PaceDelta, boolToInt(r.Improved),
		r.DistanceKm, r.Weather, r.Condition, r.TemperatureC, r.BodyWeightKg,
		r.AirQuality, r.Memo, r.CoachID,
	)
	return err
}

// DeleteRecord removes a cached record scoped by id AND account, mirroring
// the remote delete filter.
func (s *Store) DeleteRecord(accountID string, id int64) error {
	result, err := s.db.Exec(`
		DELETE FROM records WHERE id = ? AND account_id = ?
	`, id, accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountRecords returns the number of cached records for an account.
func (s *Store) CountRecords(accountID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE account_id = ?`, accountID).Scan(&count)
	return count, err
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record

	for rows.Next() {
		var r Record
		var splits string
		var improved int

		err := rows.Scan(
			&r.ID, &r.AccountID, &r.Date, &r.StartTime, &splits,
			&r.TotalDuration, &r.AveragePace, &r.Calories, &r.PaceDelta, &improved,
			&r.DistanceKm, &r.Weather, &r.Condition, &r.TemperatureC, &r.BodyWeightKg,
			&r.AirQuality, &r.Memo, &r.CoachID,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(splits), &r.Splits); err != nil {
			return nil, fmt.Errorf("parsing splits %q: %w", splits, err)
		}
		r.Improved = improved == 1

		records = append(records, r)
	}

	return records, rows.Err()
}

// GetRecord retrieves a single cached record.
func (s *Store) GetRecord(accountID string, id int64) (*Record, error) {
	rows, err := s.db.Query(`
		SELECT id, account_id, date, start_time, splits,
			total_duration, average_pace, calories, pace_delta, improved,
			distance_km, weather, condition, temperature_c, body_weight_kg,
			air_quality, memo, coach_id
		FROM records
		WHERE id = ? AND account_id = ?
	`, id, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return &records[0], nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
