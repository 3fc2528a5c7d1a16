package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

// 32 MB, freecache enforces a 512 KB minimum
const defaultMemoryStoreSize = 32 * 1024 * 1024

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Entries expire on their own and
// the oldest ones get evicted when the cache is full.
type MemoryStore struct {
	cache *freecache.Cache
}

func NewMemoryStore(sizeBytes int) *MemoryStore {
	if sizeBytes <= 0 {
		sizeBytes = defaultMemoryStoreSize
	}
	return &MemoryStore{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (s *MemoryStore) Save(_ context.Context, token string, sess *Session, ttl time.Duration) error {
	sessJson, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	expireSeconds := int(ttl / time.Second)
	if ttl > 0 && expireSeconds == 0 {
		expireSeconds = 1
	}
	return s.cache.Set([]byte(token), sessJson, expireSeconds)
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	sessJson, err := s.cache.Get([]byte(token))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(sessJson, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.cache.Del([]byte(token))
	return nil
}

func (s *MemoryStore) Count() int64 {
	return s.cache.EntryCount()
}
