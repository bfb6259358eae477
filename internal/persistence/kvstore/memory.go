package kvstore

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process store with the same semantics as SQLiteStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func memKey(group, key string) string { return group + "\x00" + key }

func (m *MemoryStore) Get(group, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[memKey(group, key)]
	return e.Value, ok, nil
}

func (m *MemoryStore) Set(group, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(group, key)] = Entry{Group: group, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryStore) Unset(group, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memKey(group, key))
	return nil
}

func (m *MemoryStore) List(group, prefix string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		if e.Group == group && strings.HasPrefix(e.Key, prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
