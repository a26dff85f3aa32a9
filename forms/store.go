package forms

import (
	"context"
	"sync"
)

// Store keeps form records. Implementations must be safe for concurrent
// use.
type Store interface {
	// Add stores a new record for the named form
	Add(ctx context.Context, form string, record Record) error
	// Update merges the update into the first record matching all key
	// values. It returns false if no record matches.
	Update(ctx context.Context, form string, keys Record, update Record) (bool, error)
	// List returns all records of the named form in submission order
	List(ctx context.Context, form string) ([]Record, error)
	// Clear deletes all records of the named form
	Clear(ctx context.Context, form string) error
}

// MemoryStore keeps records in memory. It is intended for examples and
// tests; deployed backends use the postgres backed SQLStore.
type MemoryStore struct {
	mutex   sync.Mutex
	records map[string][]Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]Record{}}
}

// Add stores a new record
func (s *MemoryStore) Add(ctx context.Context, form string, record Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	clone := Record{}
	for name, value := range record {
		clone[name] = value
	}
	s.records[form] = append(s.records[form], clone)
	return nil
}

// Update merges the update into the first matching record
func (s *MemoryStore) Update(ctx context.Context, form string, keys Record, update Record) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, record := range s.records[form] {
		if !matches(record, keys) {
			continue
		}
		for name, value := range update {
			record[name] = value
		}
		return true, nil
	}
	return false, nil
}

// List returns all records in submission order
func (s *MemoryStore) List(ctx context.Context, form string) ([]Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	list := make([]Record, 0, len(s.records[form]))
	for _, record := range s.records[form] {
		clone := Record{}
		for name, value := range record {
			clone[name] = value
		}
		list = append(list, clone)
	}
	return list, nil
}

// Clear deletes all records of the form
func (s *MemoryStore) Clear(ctx context.Context, form string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.records, form)
	return nil
}

func matches(record Record, keys Record) bool {
	for name, value := range keys {
		if record[name] != value {
			return false
		}
	}
	return true
}
