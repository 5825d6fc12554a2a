// Package suspecttest provides an in-memory suspect repository.
package suspecttest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	crimeentity "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/listquery"
)

// Reports reports whether a crime report exists; used to emulate the
// foreign key.
type Reports interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Memory implements suspect.Repository and crime.SuspectSummaries.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	rows    map[int64]entity.Suspect
	reports Reports
}

// NewMemory returns an empty store. With a non-nil reports, writes that
// reference a missing report fail like a foreign-key violation.
func NewMemory(reports Reports) *Memory {
	return &Memory{
		rows:    map[int64]entity.Suspect{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		reports: reports,
	}
}

func (m *Memory) List(_ context.Context, f entity.ListFilter) ([]entity.Suspect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	terms := listquery.Terms(f.Search)
	out := []entity.Suspect{}
	for _, s := range m.rows {
		if matches(terms, s.SFirstName, s.SMiddleName, s.SLastName, s.SBarangay, s.SCityMunicipality,
			s.SProvince, s.Barangay, s.CityMunicipality, s.Province) {
			out = append(out, s)
		}
	}
	asc := strings.TrimSpace(strings.Split(f.Ordering, ",")[0]) == "created_at"
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, id int64) (*entity.Suspect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *Memory) Create(ctx context.Context, s *entity.Suspect) error {
	if err := m.checkFK(ctx, s.CrimeReportID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	s.ID = m.nextID
	s.CreatedAt = m.clock
	s.UpdatedAt = m.clock
	m.rows[s.ID] = *s
	return nil
}

func (m *Memory) Update(ctx context.Context, s *entity.Suspect) error {
	if err := m.checkFK(ctx, s.CrimeReportID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[s.ID]
	if !ok {
		return sql.ErrNoRows
	}
	m.clock = m.clock.Add(time.Second)
	s.CreatedAt = old.CreatedAt
	s.UpdatedAt = m.clock
	m.rows[s.ID] = *s
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

// DeleteByReport drops every suspect of a report.
func (m *Memory) DeleteByReport(crimeID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.rows {
		if s.CrimeReportID == crimeID {
			delete(m.rows, id)
		}
	}
}

func (m *Memory) SummariesFor(_ context.Context, crimeIDs []int64) (map[int64][]crimeentity.SuspectSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[int64]bool, len(crimeIDs))
	for _, id := range crimeIDs {
		want[id] = true
	}
	ids := make([]int64, 0, len(m.rows))
	for id, s := range m.rows {
		if want[s.CrimeReportID] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.rows[ids[i]], m.rows[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return ids[i] > ids[j]
	})
	out := map[int64][]crimeentity.SuspectSummary{}
	for _, id := range ids {
		s := m.rows[id]
		out[s.CrimeReportID] = append(out[s.CrimeReportID], crimeentity.SuspectSummary{
			ID:         s.ID,
			CrimeID:    s.CrimeReportID,
			Name:       crimeentity.JoinName(s.SFirstName, s.SMiddleName, s.SLastName),
			SCrimeType: s.SCrimeType,
		})
	}
	return out, nil
}

func (m *Memory) checkFK(ctx context.Context, crimeID int64) error {
	if m.reports == nil {
		return nil
	}
	ok, err := m.reports.Exists(ctx, crimeID)
	if err != nil {
		return err
	}
	if !ok {
		return &pq.Error{Code: "23503", Constraint: "suspects_crime_report_id_fkey"}
	}
	return nil
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
