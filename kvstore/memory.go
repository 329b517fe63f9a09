package kvstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// MemoryStore lives as long as the process, handy for development and tests
type MemoryStore struct {
	docs cmap.ConcurrentMap[string, []byte]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: cmap.New[[]byte]()}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	v, ok := m.docs.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validate(key, value); err != nil {
		return err
	}
	m.docs.Set(key, append([]byte(nil), value...))
	return nil
}

func (m *MemoryStore) Del(ctx context.Context, key string) error {
	m.docs.Remove(key)
	return nil
}

func (m *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0, m.docs.Count())
	for _, k := range m.docs.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, m.docs.Count())
	m.docs.IterCb(func(key string, v []byte) {
		out[key] = append(json.RawMessage(nil), v...)
	})
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

// Shared is false: a memory store lives and dies with this process
func (m *MemoryStore) Shared() bool { return false }
