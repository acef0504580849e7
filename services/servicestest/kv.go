package servicestest

import (
	"context"
	"sync"

	"marquee/services"
)

// KVStore is an in-memory services.KVStore whose writes can be made to fail.
type KVStore struct {
	mu     sync.Mutex
	data   map[string]string
	PutErr error
	GetErr error
	Puts   int
}

var _ services.KVStore = (*KVStore)(nil)

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return "", s.GetErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", services.ErrKeyNotFound
	}
	return v, nil
}

func (s *KVStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.data[key] = value
	s.Puts++
	return nil
}

// Raw returns the stored value for key, or "" when absent.
func (s *KVStore) Raw(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}
