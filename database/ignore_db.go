package database

import (
	"database/sql"
	"fmt"

	"forum-bot/models"
)

// AddIgnore records that a chat ignores the given target, creating the
// rule row on first use. target is a username for kind "user" and a
// canonical topic link for kind "topic".
func (s *Store) AddIgnore(kind, target, chatID string) error {
	column, err := ignoreColumn(kind)
	if err != nil {
		return err
	}

	var ruleID int64
	row := s.db.QueryRow(fmt.Sprintf(`SELECT id FROM ignores WHERE kind = ? AND %s = ?`, column), kind, target)
	switch err := row.Scan(&ruleID); err {
	case nil:
	case sql.ErrNoRows:
		res, err := s.db.Exec(fmt.Sprintf(`INSERT INTO ignores (kind, %s) VALUES (?, ?)`, column), kind, target)
		if err != nil {
			return fmt.Errorf("failed to create ignore rule for %s: %w", target, err)
		}
		ruleID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read ignore rule id: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up ignore rule for %s: %w", target, err)
	}

	if _, err := s.appendSet("ignore_chats", "ignore_id", ruleID, chatID); err != nil {
		return err
	}
	return nil
}

// RemoveIgnore drops a chat from the rule targeting the given key.
func (s *Store) RemoveIgnore(kind, target, chatID string) error {
	column, err := ignoreColumn(kind)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(
		`DELETE FROM ignore_chats WHERE chat_id = ? AND ignore_id IN
		 (SELECT id FROM ignores WHERE kind = ? AND %s = ?)`, column),
		chatID, kind, target)
	if err != nil {
		return fmt.Errorf("failed to remove ignore for %s: %w", target, err)
	}
	return nil
}

// ListIgnores returns every ignore rule with its applying chat ids.
func (s *Store) ListIgnores() ([]models.Ignore, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.kind, i.username, i.link, c.chat_id
		 FROM ignores i JOIN ignore_chats c ON c.ignore_id = i.id
		 ORDER BY i.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ignore rules: %w", err)
	}
	defer rows.Close()

	var ignores []models.Ignore
	index := make(map[int64]int)
	for rows.Next() {
		var ignore models.Ignore
		var chatID string
		if err := rows.Scan(&ignore.ID, &ignore.Kind, &ignore.Username, &ignore.Link, &chatID); err != nil {
			return nil, fmt.Errorf("failed to scan ignore rule: %w", err)
		}
		if i, ok := index[ignore.ID]; ok {
			ignores[i].Ignoring = append(ignores[i].Ignoring, chatID)
			continue
		}
		ignore.Ignoring = []string{chatID}
		index[ignore.ID] = len(ignores)
		ignores = append(ignores, ignore)
	}
	return ignores, rows.Err()
}

func ignoreColumn(kind string) (string, error) {
	switch kind {
	case models.IgnoreUser:
		return "username", nil
	case models.IgnoreTopic:
		return "link", nil
	default:
		return "", fmt.Errorf("unknown ignore kind %q", kind)
	}
}
