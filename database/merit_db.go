package database

import (
	"database/sql"
	"fmt"
	"time"

	"forum-bot/models"
)

// InsertMeritIfAbsent stores a merit award keyed by its (datetime, amount,
// post link) identity tuple. The tuple is a known approximation: the
// upstream page exposes no award id, so two byte-identical simultaneous
// awards would collapse into one row. Duplicate inserts are a no-op.
func (s *Store) InsertMeritIfAbsent(merit models.Merit) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO merits
		 (datetime, amount, sender_username, sender_link, post_title, post_link, receiver_uid, notified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		merit.Datetime.Unix(), merit.Amount, merit.SenderUsername, merit.SenderLink,
		merit.PostTitle, merit.PostLink, merit.ReceiverUID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert merit for %s: %w", merit.PostLink, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read merit insert result: %w", err)
	}
	return n > 0, nil
}

// FindUnnotifiedMerits returns unclaimed merits awarded within the
// trailing window.
func (s *Store) FindUnnotifiedMerits(window time.Duration) ([]models.Merit, error) {
	cutoff := time.Now().Add(-window).Unix()
	rows, err := s.db.Query(
		`SELECT id, datetime, amount, sender_username, sender_link, post_title, post_link, receiver_uid, notified
		 FROM merits WHERE notified = 0 AND datetime >= ?`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query unnotified merits: %w", err)
	}
	defer rows.Close()

	var merits []models.Merit
	for rows.Next() {
		merit, err := scanMerit(rows)
		if err != nil {
			return nil, err
		}
		merits = append(merits, merit)
	}
	return merits, rows.Err()
}

// ClaimMerit atomically flips the merit's notified flag. Only the caller
// that observes true may dispatch; a second concurrent claim sees false.
func (s *Store) ClaimMerit(id int64) (bool, error) {
	res, err := s.db.Exec(`UPDATE merits SET notified = 1 WHERE id = ? AND notified = 0`, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim merit %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result for merit %d: %w", id, err)
	}
	return n > 0, nil
}

func scanMerit(rows *sql.Rows) (models.Merit, error) {
	var merit models.Merit
	var datetime int64
	var notified int
	err := rows.Scan(&merit.ID, &datetime, &merit.Amount, &merit.SenderUsername,
		&merit.SenderLink, &merit.PostTitle, &merit.PostLink, &merit.ReceiverUID, &notified)
	if err != nil {
		return models.Merit{}, fmt.Errorf("failed to scan merit: %w", err)
	}
	merit.Datetime = time.Unix(datetime, 0).UTC()
	merit.Notified = notified != 0
	return merit, nil
}
