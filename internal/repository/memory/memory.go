// Package memory implements repository.Store in process memory. Nothing
// survives a restart; it backs CAREER_STORE=memory and the tests of the
// packages above the store.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/repository"
)

// compile-time check that *Store implements repository.Store
var _ repository.Store = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, apperror.NotFound("storage key", key)
	}
	// Hand out a copy so callers cannot mutate stored bytes.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }

// Keys returns the keys currently set, in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
