// Package regiontest provides an in-memory region repository.
package regiontest

import (
	"context"
	"sort"
	"sync"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/region/entity"
)

type Memory struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]entity.Region
}

func NewMemory(seed ...entity.Region) *Memory {
	m := &Memory{rows: map[string]entity.Region{}}
	_, _ = m.Upsert(context.Background(), seed)
	return m
}

func (m *Memory) List(_ context.Context, limit, offset int) ([]entity.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Region, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Upsert(_ context.Context, regions []entity.Region) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range regions {
		if old, ok := m.rows[r.Code]; ok {
			r.ID = old.ID
		} else {
			m.nextID++
			r.ID = m.nextID
		}
		m.rows[r.Code] = r
	}
	return len(regions), nil
}
