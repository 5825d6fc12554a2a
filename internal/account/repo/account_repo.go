package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/entity"
)

// AccountRepo provides data access for the accounts table using sqlx.
type AccountRepo struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

// EnsureTable creates the accounts table if not exists (idempotent).
func (r *AccountRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS accounts (
  id BIGSERIAL PRIMARY KEY,
  username VARCHAR(150) NOT NULL,
  email VARCHAR(254) NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  badge_number VARCHAR(6),
  id_image TEXT,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  is_active BOOLEAN NOT NULL DEFAULT true,
  last_login TIMESTAMPTZ,
  date_joined TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT accounts_username_key UNIQUE (username),
  CONSTRAINT accounts_badge_number_key UNIQUE (badge_number)
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const accountColumns = `id, username, email, password_hash, badge_number, id_image,
	is_admin, is_active, last_login, date_joined, updated_at`

// Create inserts a new account row and fills in the generated columns.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	const q = `INSERT INTO accounts (username, email, password_hash, badge_number, id_image, is_admin, is_active)
		VALUES (:username, :email, :password_hash, :badge_number, :id_image, :is_admin, :is_active)
		RETURNING id, date_joined, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, a)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return errors.New("no id returned")
	}
	return rows.Scan(&a.ID, &a.DateJoined, &a.UpdatedAt)
}

// GetByUsername fetches by exact username or returns sql.ErrNoRows.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM accounts WHERE username=$1`, username); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches a full account row or returns sql.ErrNoRows.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// UsernameExists reports whether username is taken.
func (r *AccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username=$1)`, username)
}

// BadgeNumberExists reports whether badge is taken.
func (r *AccountRepo) BadgeNumberExists(ctx context.Context, badge string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE badge_number=$1)`, badge)
}

func (r *AccountRepo) exists(ctx context.Context, q string, arg any) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, arg); err != nil {
		return false, err
	}
	return ok, nil
}

// TouchLastLogin stamps a successful login.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login=NOW() WHERE id=$1`, id)
	return err
}

// UpdatePasswordHash replaces the stored hash of an account.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash=$2, updated_at=NOW() WHERE id=$1`, id, hash)
	return err
}

// Deactivate marks an account inactive. Returns sql.ErrNoRows when the id
// does not exist.
func (r *AccountRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET is_active=false, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
