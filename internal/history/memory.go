package history

import (
	"context"
	"sync"
)

// MemoryArchive keeps records in process memory.
type MemoryArchive struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryArchive returns an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{}
}

func (m *MemoryArchive) Append(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append([]Record{rec}, m.records...)
	if len(m.records) > Capacity {
		m.records = m.records[:Capacity]
	}
	return nil
}

func (m *MemoryArchive) List(_ context.Context, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, n)
	copy(out, m.records[:n])
	return out, nil
}

func (m *MemoryArchive) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}
