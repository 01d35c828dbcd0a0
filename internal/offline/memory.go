package offline

import (
	"bytes"
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries for the life of the process.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store whose entries never expire.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, bytes.Clone(value), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	val, found := s.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Len reports the number of stored keys.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
