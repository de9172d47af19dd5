package store

import (
	"context"
	"sync"
)

// Memory keeps values in process memory. Values are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Entries(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := m.values[key]; ok {
			out[key] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}
