package persistence

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-sentinel/pkg/cycle"
)

// MemoryStore keeps cycles in memory. It exists for tests and for running
// without a writable filesystem; entries do not survive the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	seq     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Save stores a deep copy of the cycle under a sequence-ordered ID.
func (m *MemoryStore) Save(c *cycle.Cycle) (string, error) {
	if c == nil {
		return "", fmt.Errorf("cannot persist nil cycle")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cycle %s: %w", c.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("%06d_%s", m.seq, c.ID)
	m.entries[id] = data
	return id, nil
}

// Load retrieves a cycle by ID.
func (m *MemoryStore) Load(id string) (*cycle.Cycle, error) {
	m.mu.RLock()
	data, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("history ID %q: %w", id, ErrNotFound)
	}
	var c cycle.Cycle
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all IDs oldest first.
func (m *MemoryStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
