package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"forum-bot/models"
)

// AddressStore is the document store indexing crypto addresses to the
// posts they were seen in.
type AddressStore struct {
	path    string
	mutex   sync.Mutex
	records map[string]*models.AddressRecord // keyed by coin + "\x00" + address
}

// NewAddressStore loads (or initializes) the address index at path.
func NewAddressStore(path string) (*AddressStore, error) {
	store := &AddressStore{
		path:    path,
		records: make(map[string]*models.AddressRecord),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read address store: %w", err)
	}

	var records []*models.AddressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode address store: %w", err)
	}
	for _, record := range records {
		store.records[record.Coin+"\x00"+record.Address] = record
	}
	return store, nil
}

// RecordSighting appends a post reference to the address's document,
// creating it on first sight. Appending an already-recorded sighting is a
// no-op.
func (a *AddressStore) RecordSighting(coin, address string, sighting models.AddressSighting) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	key := coin + "\x00" + address
	record, exists := a.records[key]
	if !exists {
		record = &models.AddressRecord{Coin: coin, Address: address}
		a.records[key] = record
	}

	for _, seen := range record.Mentions {
		if seen == sighting {
			return false, nil
		}
	}
	record.Mentions = append(record.Mentions, sighting)
	return true, a.save()
}

// Find returns the record for an address, or nil.
func (a *AddressStore) Find(coin, address string) (*models.AddressRecord, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	record, exists := a.records[coin+"\x00"+address]
	if !exists {
		return nil, nil
	}
	copied := *record
	copied.Mentions = append([]models.AddressSighting(nil), record.Mentions...)
	return &copied, nil
}

func (a *AddressStore) save() error {
	records := make([]*models.AddressRecord, 0, len(a.records))
	for _, record := range a.records {
		records = append(records, record)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create address store directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal address store: %w", err)
	}
	if err := os.WriteFile(a.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write address store: %w", err)
	}
	return nil
}
