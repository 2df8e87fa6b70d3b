package store

import (
	"database/sql"
	"errors"
)

// GetPoints returns the accumulated points total for an account.
// Returns 0 for an account with no counter yet.
func (s *Store) GetPoints(accountID string) (int, error) {
	var total int
	err := s.db.QueryRow(`SELECT total FROM points WHERE account_id = ?`, accountID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return total, err
}

// AddPoints increments the running counter. Points only accumulate; the
// total is never rebuilt from history.
func (s *Store) AddPoints(accountID string, delta int) (int, error) {
	_, err := s.db.Exec(`
		INSERT INTO points (account_id, total) VALUES (?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			total = total + excluded.total,
			updated_at = CURRENT_TIMESTAMP
	`, accountID, delta)
	if err != nil {
		return 0, err
	}
	return s.GetPoints(accountID)
}
