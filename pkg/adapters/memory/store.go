package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Store implements ports.UnitStore in memory.
// Units are kept serialized so callers never share pointers with the store.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save persists the unit in memory.
func (s *Store) Save(ctx context.Context, key string, unit *domain.CompilationUnit) error {
	data, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("failed to marshal unit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

// Load retrieves a copy of the unit from memory.
func (s *Store) Load(ctx context.Context, key string) (*domain.CompilationUnit, error) {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrUnitNotFound
	}

	var unit domain.CompilationUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit: %w", err)
	}
	if err := unit.Link(); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Delete removes the unit.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
