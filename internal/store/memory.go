package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process RecordStore used by tests and by the
// CLI's offline mode. Documents live only for the process lifetime.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (m *MemoryStore) GetRecord(ctx context.Context, email string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.docs[email]
	if !ok {
		return nil, ErrNotFound
	}
	return RecordFromFields(email, cloneFields(fields)), nil
}

func (m *MemoryStore) PutRecord(ctx context.Context, email string, fields map[string]any, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[email]
	if !merge || !ok {
		m.docs[email] = cloneFields(fields)
		return nil
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func (m *MemoryStore) QueryByField(ctx context.Context, field string, value any, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for email, fields := range m.docs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if fields[field] == value {
			out = append(out, RecordFromFields(email, cloneFields(fields)))
		}
	}
	return out, nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
