package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store is the durable key-value surface the engine requires: get, set
// and delete by string key, nothing more. Backends are interchangeable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}

// Options select a backend. Redis wins when both are configured; an
// in-memory store is the fallback when neither is reachable.
type Options struct {
	RedisURL    string
	PostgresDSN string
}

// New picks the first reachable backend.
func New(opts Options, logger *zap.Logger) Store {
	if opts.RedisURL != "" {
		if s, err := NewRedisStore(opts.RedisURL); err == nil {
			return s
		} else if logger != nil {
			logger.Warn("redis store unavailable, falling back", zap.Error(err))
		}
	}
	if opts.PostgresDSN != "" {
		if s, err := NewGormStore(opts.PostgresDSN); err == nil {
			return s
		} else if logger != nil {
			logger.Warn("postgres store unavailable, falling back", zap.Error(err))
		}
	}
	if logger != nil {
		logger.Info("using in-memory store; nothing persists across runs")
	}
	return NewMemoryStore()
}

// MemoryStore keeps everything in process. Used as the last-resort
// backend and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.items[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

func (m *MemoryStore) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(val))
	copy(cp, val)
	m.items[key] = cp
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
