package database

import (
	"fmt"

	"forum-bot/models"
)

// InsertTopicIfAbsent stores a topic keyed by its forum topic id.
func (s *Store) InsertTopicIfAbsent(topic models.Topic) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO topics (id, title, author, link) VALUES (?, ?, ?, ?)`,
		topic.ID, topic.Title, topic.Author, topic.Link,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert topic %d: %w", topic.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read topic insert result: %w", err)
	}
	return n > 0, nil
}

// TrackTopic adds a chat id to the topic's tracking set (idempotent).
func (s *Store) TrackTopic(topicID int64, chatID string) (bool, error) {
	return s.appendSet("topic_tracking", "topic_id", topicID, chatID)
}

// UntrackTopic removes a chat id from the topic's tracking set. Unlike the
// notification dedup sets, tracking membership is subscriber-managed and
// removable.
func (s *Store) UntrackTopic(topicID int64, chatID string) error {
	_, err := s.db.Exec(`DELETE FROM topic_tracking WHERE topic_id = ? AND chat_id = ?`, topicID, chatID)
	if err != nil {
		return fmt.Errorf("failed to untrack topic %d: %w", topicID, err)
	}
	return nil
}

// ListTrackedTopics returns every topic with a non-empty tracking set,
// tracking chat ids included.
func (s *Store) ListTrackedTopics() ([]models.Topic, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.title, t.author, t.link, tt.chat_id
		 FROM topics t JOIN topic_tracking tt ON tt.topic_id = t.id
		 ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	index := make(map[int64]int)
	for rows.Next() {
		var topic models.Topic
		var chatID string
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.Author, &topic.Link, &chatID); err != nil {
			return nil, fmt.Errorf("failed to scan tracked topic: %w", err)
		}
		if i, ok := index[topic.ID]; ok {
			topics[i].Tracking = append(topics[i].Tracking, chatID)
			continue
		}
		topic.Tracking = []string{chatID}
		index[topic.ID] = len(topics)
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// TopicsTrackedBy returns the topics a single chat tracks.
func (s *Store) TopicsTrackedBy(chatID string) ([]models.Topic, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.title, t.author, t.link
		 FROM topics t JOIN topic_tracking tt ON tt.topic_id = t.id
		 WHERE tt.chat_id = ? ORDER BY t.id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics for chat %s: %w", chatID, err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var topic models.Topic
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.Author, &topic.Link); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
