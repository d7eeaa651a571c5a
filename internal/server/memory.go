package server

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	records []AnswerRecord
	expires time.Time
}

// MemoryRegistry is the default in-process Registry. Expiry is checked
// lazily on access; a zero TTL means sessions never expire.
type MemoryRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryRegistry creates a memory registry with the given idle TTL.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		ttl:     ttl,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryRegistry) get(id string) (*memoryEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.entries, id)
		return nil, false
	}
	return e, true
}

func (m *MemoryRegistry) touch(e *memoryEntry) {
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
}

func (m *MemoryRegistry) Create(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &memoryEntry{}
	m.touch(e)
	m.entries[id] = e
	return nil
}

func (m *MemoryRegistry) Append(_ context.Context, id string, rec AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(id)
	if !ok {
		return ErrSessionNotFound
	}
	e.records = append(e.records, rec)
	m.touch(e)
	return nil
}

func (m *MemoryRegistry) Records(_ context.Context, id string) ([]AnswerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.touch(e)

	out := make([]AnswerRecord, len(e.records))
	copy(out, e.records)
	return out, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}
