// Package crimetest provides an in-memory crime report repository.
package crimetest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/listquery"
)

// Memory implements crime.Repository. Rows get strictly increasing
// created_at values so ordering is deterministic.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	rows   map[int64]entity.CrimeReport

	// OnDelete runs after a row is removed, standing in for ON DELETE CASCADE.
	OnDelete func(id int64)
}

func NewMemory() *Memory {
	return &Memory{rows: map[int64]entity.CrimeReport{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *Memory) List(_ context.Context, f entity.ListFilter) ([]entity.CrimeReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	terms := listquery.Terms(f.Search)
	out := []entity.CrimeReport{}
	for _, c := range m.rows {
		if c.IsArchived && !f.IncludeArchived {
			continue
		}
		if matches(terms, c.CrimeType, c.VFirstName, c.VLastName) {
			out = append(out, c)
		}
	}
	field, desc := ordering(f.Ordering)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		less := a.ID < b.ID
		switch field {
		case "happened_at":
			ka, kb := dateKey(a), dateKey(b)
			if ka != kb {
				less = ka < kb
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				less = a.CreatedAt.Before(b.CreatedAt)
			}
		}
		if desc {
			return !less
		}
		return less
	})
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, id int64) (*entity.CrimeReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *Memory) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *Memory) Create(_ context.Context, c *entity.CrimeReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	c.ID = m.nextID
	c.CreatedAt = m.clock
	c.UpdatedAt = m.clock
	m.rows[c.ID] = *c
	return nil
}

func (m *Memory) Update(_ context.Context, c *entity.CrimeReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[c.ID]
	if !ok {
		return sql.ErrNoRows
	}
	m.clock = m.clock.Add(time.Second)
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = m.clock
	m.rows[c.ID] = *c
	return nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	if _, ok := m.rows[id]; !ok {
		m.mu.Unlock()
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	m.mu.Unlock()
	if m.OnDelete != nil {
		m.OnDelete(id)
	}
	return nil
}

// Archive flags a row archived; the HTTP surface has no such operation.
func (m *Memory) Archive(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.rows[id]
	c.IsArchived = true
	m.rows[id] = c
}

func matches(terms []string, fields ...string) bool {
	for _, t := range terms {
		t = strings.ToLower(t)
		hit := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func ordering(raw string) (field string, desc bool) {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	desc = strings.HasPrefix(first, "-")
	field = strings.TrimPrefix(first, "-")
	if field != "created_at" && field != "happened_at" {
		return "created_at", true
	}
	return field, desc
}

func dateKey(c entity.CrimeReport) string {
	if c.HappenedAt == nil {
		return ""
	}
	return c.HappenedAt.String()
}
