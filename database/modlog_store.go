package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"forum-bot/models"
)

// ModlogStore is the document store for moderation events. One process
// owns all polling loops, so a mutex around the in-memory map is the only
// atomicity the claim protocol needs; the JSON file makes the ledger
// survive restarts.
type ModlogStore struct {
	path   string
	mutex  sync.Mutex
	events map[int64]*models.ModerationEvent
}

// NewModlogStore loads (or initializes) the moderation-event ledger at
// path.
func NewModlogStore(path string) (*ModlogStore, error) {
	store := &ModlogStore{
		path:   path,
		events: make(map[int64]*models.ModerationEvent),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read modlog store: %w", err)
	}

	var events []*models.ModerationEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode modlog store: %w", err)
	}
	for _, event := range events {
		store.events[event.TopicID] = event
	}
	return store, nil
}

// InsertIfAbsent records a topic removal once. Re-observing a removal on a
// later modlog scrape is a no-op.
func (m *ModlogStore) InsertIfAbsent(event models.ModerationEvent) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.events[event.TopicID]; exists {
		return false, nil
	}
	event.Notified = false
	event.CreatedAt = time.Now().UTC()
	m.events[event.TopicID] = &event
	return true, m.save()
}

// Unnotified returns the events whose fan-out has not been claimed yet.
func (m *ModlogStore) Unnotified() ([]models.ModerationEvent, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var out []models.ModerationEvent
	for _, event := range m.events {
		if !event.Notified {
			out = append(out, *event)
		}
	}
	return out, nil
}

// Claim flips the event's notified flag before any fan-out is computed.
// Only the caller that observes true proceeds; a crash after the claim
// loses the event's notifications rather than risking a double fan-out.
func (m *ModlogStore) Claim(topicID int64) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	event, exists := m.events[topicID]
	if !exists || event.Notified {
		return false, nil
	}
	event.Notified = true
	return true, m.save()
}

// save writes the ledger while the mutex is held.
func (m *ModlogStore) save() error {
	events := make([]*models.ModerationEvent, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create modlog store directory: %w", err)
	}
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal modlog store: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write modlog store: %w", err)
	}
	return nil
}
