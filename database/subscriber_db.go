package database

import (
	"database/sql"
	"fmt"

	"forum-bot/models"
)

// UpsertSubscriber creates or replaces the subscriber registered for a
// chat. Used by the command surface; the polling cycles only read.
func (s *Store) UpsertSubscriber(sub models.Subscriber) error {
	_, err := s.db.Exec(
		`INSERT INTO subscribers
		 (chat_id, username, alt_username, uid, enable_mentions, enable_merits, notify_deleted, language)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   username = excluded.username,
		   alt_username = excluded.alt_username,
		   uid = excluded.uid,
		   enable_mentions = excluded.enable_mentions,
		   enable_merits = excluded.enable_merits,
		   notify_deleted = excluded.notify_deleted,
		   language = excluded.language`,
		sub.ChatID, sub.Username, sub.AltUsername, sub.UID,
		sub.EnableMentions, sub.EnableMerits, sub.NotifyDeleted, sub.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber %s: %w", sub.ChatID, err)
	}
	return nil
}

// FindSubscriberByChat returns the subscriber for a chat, or nil.
func (s *Store) FindSubscriberByChat(chatID string) (*models.Subscriber, error) {
	row := s.db.QueryRow(subscriberColumns+` WHERE chat_id = ?`, chatID)
	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriber %s: %w", chatID, err)
	}
	return &sub, nil
}

// FindSubscriberByUID returns the deletion-notifiable subscriber with the
// given forum id, or nil. Used by the deletion fan-out.
func (s *Store) FindSubscriberByUID(uid int64) (*models.Subscriber, error) {
	if uid == 0 {
		return nil, nil
	}
	row := s.db.QueryRow(subscriberColumns+` WHERE uid = ? AND notify_deleted = 1`, uid)
	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriber with uid %d: %w", uid, err)
	}
	return &sub, nil
}

// ListNotifiableSubscribers returns subscribers with mentions or merits
// enabled, the population the post cycle evaluates.
func (s *Store) ListNotifiableSubscribers() ([]models.Subscriber, error) {
	return s.listSubscribers(subscriberColumns + ` WHERE enable_mentions = 1 OR enable_merits = 1`)
}

// ListSubscribersWithUID returns subscribers with a known forum id, the
// population the merit cycle evaluates.
func (s *Store) ListSubscribersWithUID() ([]models.Subscriber, error) {
	return s.listSubscribers(subscriberColumns + ` WHERE uid != 0`)
}

// ListAllSubscribers returns the full registry. The tracked-topic matcher
// needs it to resolve tracking chat ids regardless of opt-in flags.
func (s *Store) ListAllSubscribers() ([]models.Subscriber, error) {
	return s.listSubscribers(subscriberColumns)
}

// DeleteSubscriber removes a chat's registration.
func (s *Store) DeleteSubscriber(chatID string) error {
	if _, err := s.db.Exec(`DELETE FROM subscribers WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete subscriber %s: %w", chatID, err)
	}
	return nil
}

const subscriberColumns = `SELECT id, chat_id, username, alt_username, uid,
	enable_mentions, enable_merits, notify_deleted, language FROM subscribers`

func (s *Store) listSubscribers(query string, args ...interface{}) ([]models.Subscriber, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubscriber(r rowScanner) (models.Subscriber, error) {
	var sub models.Subscriber
	err := r.Scan(&sub.ID, &sub.ChatID, &sub.Username, &sub.AltUsername, &sub.UID,
		&sub.EnableMentions, &sub.EnableMerits, &sub.NotifyDeleted, &sub.Language)
	return sub, err
}
