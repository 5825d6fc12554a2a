// Package personneltest provides an in-memory personnel profile repository.
package personneltest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/repo"
)

// Memory implements personnel.Repository including the officer_id unique
// constraint.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	rows   map[int64]entity.Profile
}

func NewMemory() *Memory {
	return &Memory{rows: map[int64]entity.Profile{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *Memory) List(_ context.Context, f entity.ListFilter) ([]entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Profile{}
	for _, p := range m.rows {
		if f.IsArchived != nil && p.IsArchived != *f.IsArchived {
			continue
		}
		out = append(out, p)
	}
	first := strings.TrimSpace(strings.Split(f.Ordering, ",")[0])
	desc := true
	switch first {
	case "created_at", "id":
		desc = false
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, id int64) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *Memory) OfficerIDTaken(_ context.Context, officerID string, exceptID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken(officerID, exceptID), nil
}

func (m *Memory) Create(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(p.OfficerID, 0) {
		return &pq.Error{Code: "23505", Constraint: repo.OfficerIDConstraint}
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	p.ID = m.nextID
	p.CreatedAt = m.clock
	p.UpdatedAt = m.clock
	m.rows[p.ID] = *p
	return nil
}

func (m *Memory) Update(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if m.taken(p.OfficerID, p.ID) {
		return &pq.Error{Code: "23505", Constraint: repo.OfficerIDConstraint}
	}
	m.clock = m.clock.Add(time.Second)
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = m.clock
	m.rows[p.ID] = *p
	return nil
}

func (m *Memory) Archive(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.IsArchived = true
	m.rows[id] = p
	return nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *Memory) taken(officerID string, exceptID int64) bool {
	for id, p := range m.rows {
		if id != exceptID && p.OfficerID == officerID {
			return true
		}
	}
	return false
}
