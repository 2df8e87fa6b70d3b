package store

// GetUnlocked returns the persisted unlock sets for an account.
func (s *Store) GetUnlocked(accountID string) (badges, medals map[string]struct{}, err error) {
	rows, err := s.db.Query(`
		SELECT kind, achievement_id FROM achievements WHERE account_id = ?
	`, accountID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	badges = make(map[string]struct{})
	medals = make(map[string]struct{})

	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			return nil, nil, err
		}
		switch AchievementKind(kind) {
		case KindBadge:
			badges[id] = struct{}{}
		case KindMedal:
			medals[id] = struct{}{}
		}
	}

	return badges, medals, rows.Err()
}

// Unlock persists a set of achievement ids. Already-unlocked ids are
// ignored; rows are never deleted, which is what keeps the unlock sets
// monotonic across recomputation.
func (s *Store) Unlock(accountID string, kind AchievementKind, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO achievements (account_id, kind, achievement_id)
			VALUES (?, ?, ?)
		`, accountID, string(kind), id); err != nil {
			return err
		}
	}

	return tx.Commit()
}
