// Package state holds the per-browser client state: the session context, the ephemeral UI
// flags and the draft autosave, plus the key-value "local storage" they persist into.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Local storage keys, per browser.
const (
	KeyAuth  = "auth"
	KeyDraft = "post_draft"
)

// ErrNotFound is returned by LocalStore.Get for a missing key.
var ErrNotFound = errors.New("state: key not found")

// LocalStore is a string key-value store partitioned by browser id.
type LocalStore interface {
	Get(ctx context.Context, browserID, key string) (string, error)
	Set(ctx context.Context, browserID, key, value string) error
	Delete(ctx context.Context, browserID, key string) error
}

// MemoryStore keeps values in process memory. Single instance only.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, browserID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[browserID][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, browserID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot := m.data[browserID]
	if slot == nil {
		slot = map[string]string{}
		m.data[browserID] = slot
	}
	slot[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, browserID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot := m.data[browserID]; slot != nil {
		delete(slot, key)
		if len(slot) == 0 {
			delete(m.data, browserID)
		}
	}
	return nil
}

// RedisStore keeps values in Redis under prefix + browserID + ":" + key.
type RedisStore struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store; ttl <= 0 keeps keys forever.
func NewRedisStore(rc *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rc: rc, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(browserID, key string) string {
	return r.prefix + browserID + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, browserID, key string) (string, error) {
	v, err := r.rc.Get(ctx, r.key(browserID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *RedisStore) Set(ctx context.Context, browserID, key, value string) error {
	return r.rc.Set(ctx, r.key(browserID, key), value, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, browserID, key string) error {
	return r.rc.Del(ctx, r.key(browserID, key)).Err()
}
