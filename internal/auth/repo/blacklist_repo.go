package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// BlacklistRepo persists the ids (jti) of refresh tokens that have been
// rotated out. A token whose jti is present can no longer be refreshed.
type BlacklistRepo struct {
	db *sqlx.DB
}

func NewBlacklistRepo(db *sqlx.DB) *BlacklistRepo {
	return &BlacklistRepo{db: db}
}

// EnsureTable creates the token_blacklist table if not exists.
func (r *BlacklistRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS token_blacklist (
  jti TEXT PRIMARY KEY,
  account_id BIGINT NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL,
  blacklisted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_token_blacklist_expires_at ON token_blacklist(expires_at);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Revoke blacklists jti. It returns false when jti was already blacklisted,
// which makes concurrent rotations of one token fail for all but one caller.
func (r *BlacklistRepo) Revoke(ctx context.Context, jti string, accountID int64, expiresAt time.Time) (bool, error) {
	const q = `INSERT INTO token_blacklist (jti, account_id, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING RETURNING jti`
	var got string
	err := r.db.QueryRowxContext(ctx, q, jti, accountID, expiresAt).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsRevoked reports whether jti is blacklisted.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE jti=$1)`, jti)
	return ok, err
}

// PurgeExpired drops entries whose token would have expired anyway.
func (r *BlacklistRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM token_blacklist WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
