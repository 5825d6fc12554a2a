// Package accounttest provides an in-memory account repository for tests.
package accounttest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/entity"
)

// Memory implements account.Repository, including the unique constraints
// on username and badge number.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.Account
}

func NewMemory() *Memory {
	return &Memory{rows: map[int64]entity.Account{}}
}

func (m *Memory) Create(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Username == a.Username {
			return &pq.Error{Code: "23505", Constraint: "accounts_username_key"}
		}
		if a.BadgeNumber != nil && row.BadgeNumber != nil && *row.BadgeNumber == *a.BadgeNumber {
			return &pq.Error{Code: "23505", Constraint: "accounts_badge_number_key"}
		}
	}
	m.nextID++
	now := time.Now().UTC()
	a.ID = m.nextID
	a.DateJoined = now
	a.UpdatedAt = now
	m.rows[a.ID] = *a
	return nil
}

func (m *Memory) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Username == username {
			a := row
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *Memory) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *Memory) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *Memory) BadgeNumberExists(_ context.Context, badge string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.BadgeNumber != nil && *row.BadgeNumber == badge {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) TouchLastLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now().UTC()
	row.LastLogin = &now
	m.rows[id] = row
	return nil
}

func (m *Memory) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	row.PasswordHash = hash
	m.rows[id] = row
	return nil
}

func (m *Memory) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	row.IsActive = false
	row.UpdatedAt = time.Now().UTC()
	m.rows[id] = row
	return nil
}

// SetAdmin flips the admin flag; registration never creates admins.
func (m *Memory) SetAdmin(id int64, admin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	row.IsAdmin = admin
	m.rows[id] = row
}
