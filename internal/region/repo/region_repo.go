package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/region/entity"
)

// RegionRepo is the repository for the regions reference table.
type RegionRepo struct {
	db *sqlx.DB
}

func NewRegionRepo(db *sqlx.DB) *RegionRepo {
	return &RegionRepo{db: db}
}

// EnsureTable creates the regions table when to_regclass does not find it.
func (r *RegionRepo) EnsureTable(ctx context.Context) error {
	var tbl sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT to_regclass('public.regions')").Scan(&tbl); err != nil {
		return err
	}
	if tbl.Valid {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `CREATE TABLE regions (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(10) NOT NULL,
		name VARCHAR(100) NOT NULL,
		CONSTRAINT regions_code_key UNIQUE (code)
	)`)
	return err
}

// List returns regions ordered by code. limit <= 0 means no limit.
func (r *RegionRepo) List(ctx context.Context, limit, offset int) ([]entity.Region, error) {
	q := `SELECT id, code, name FROM regions ORDER BY code, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	if offset > 0 {
		q += ` OFFSET ?`
		args = append(args, offset)
	}
	out := []entity.Region{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts or renames regions by code inside one transaction and
// returns how many rows were written.
func (r *RegionRepo) Upsert(ctx context.Context, regions []entity.Region) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const q = `INSERT INTO regions (code, name) VALUES (:code, :name)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`
	for i := range regions {
		if _, err := tx.NamedExecContext(ctx, q, &regions[i]); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(regions), nil
}
