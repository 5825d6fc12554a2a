package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/incident"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/listquery"
)

// CrimeRepo is the sqlx repository for crime_reports.
type CrimeRepo struct {
	db *sqlx.DB
}

func NewCrimeRepo(db *sqlx.DB) *CrimeRepo {
	return &CrimeRepo{db: db}
}

// EnsureTable creates crime_reports if not exists.
func (r *CrimeRepo) EnsureTable(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS crime_reports (
  id BIGSERIAL PRIMARY KEY,
  crime_type VARCHAR(100) NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  happened_at DATE,
  status VARCHAR(20) NOT NULL DEFAULT 'Ongoing',
  v_first_name VARCHAR(120) NOT NULL DEFAULT '',
  v_middle_name VARCHAR(120) NOT NULL DEFAULT '',
  v_last_name VARCHAR(120) NOT NULL DEFAULT '',
  v_age VARCHAR(10) NOT NULL DEFAULT '',
  v_address VARCHAR(255) NOT NULL DEFAULT '',
  v_region VARCHAR(120) NOT NULL DEFAULT '',
  v_province VARCHAR(120) NOT NULL DEFAULT '',
  v_city_municipality VARCHAR(120) NOT NULL DEFAULT '',
  v_city_mun_kind VARCHAR(30) NOT NULL DEFAULT '',
  v_barangay VARCHAR(120) NOT NULL DEFAULT '',
  v_region_code VARCHAR(20) NOT NULL DEFAULT '',
  v_province_code VARCHAR(20) NOT NULL DEFAULT '',
  v_city_mun_code VARCHAR(20) NOT NULL DEFAULT '',
  v_barangay_code VARCHAR(20) NOT NULL DEFAULT '',
  v_photo TEXT,` + incident.DDL + `
  is_archived BOOLEAN NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_crime_reports_created_at ON crime_reports(created_at);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// writable lists the columns set by Create and Update.
var writable = database.Columns([]string{
	"crime_type", "description", "happened_at", "status",
	"v_first_name", "v_middle_name", "v_last_name", "v_age",
	"v_address", "v_region", "v_province", "v_city_municipality", "v_city_mun_kind",
	"v_barangay", "v_region_code", "v_province_code", "v_city_mun_code", "v_barangay_code",
	"v_photo",
}, incident.Columns, []string{"is_archived"})

var (
	selectColumns = "id, " + strings.Join(writable, ", ") + ", created_at, updated_at"
	insertQuery   = database.NamedInsert("crime_reports", writable, "id, created_at, updated_at")
	updateQuery   = `UPDATE crime_reports SET ` + database.NamedSet(writable) + `, updated_at=NOW() WHERE id=:id RETURNING updated_at`
)

// OrderingFields are the accepted ordering parameter values.
var OrderingFields = []string{"created_at", "happened_at"}

// SearchColumns are matched by the search parameter.
var SearchColumns = []string{"crime_type", "v_first_name", "v_last_name"}

// List returns reports matching f. Archived reports are skipped unless
// f.IncludeArchived is set.
func (r *CrimeRepo) List(ctx context.Context, f entity.ListFilter) ([]entity.CrimeReport, error) {
	var w listquery.Filter
	if !f.IncludeArchived {
		w.Where("is_archived = ?", false)
	}
	w.Search(f.Search, SearchColumns...)
	q := `SELECT ` + selectColumns + ` FROM crime_reports` + w.Clause() +
		` ORDER BY ` + listquery.OrderBy(f.Ordering, OrderingFields, "-created_at")
	out := []entity.CrimeReport{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.Args()...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the report or sql.ErrNoRows. Archived reports are
// returned too; callers decide visibility.
func (r *CrimeRepo) GetByID(ctx context.Context, id int64) (*entity.CrimeReport, error) {
	var c entity.CrimeReport
	if err := r.db.GetContext(ctx, &c, `SELECT `+selectColumns+` FROM crime_reports WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// Exists reports whether a report with id exists, archived or not.
func (r *CrimeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM crime_reports WHERE id=$1)`, id)
	return ok, err
}

// Create inserts c and fills its generated columns.
func (r *CrimeRepo) Create(ctx context.Context, c *entity.CrimeReport) error {
	rows, err := r.db.NamedQueryContext(ctx, insertQuery, c)
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
	return rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update writes every writable column of c. Returns sql.ErrNoRows when the
// row is gone.
func (r *CrimeRepo) Update(ctx context.Context, c *entity.CrimeReport) error {
	rows, err := r.db.NamedQueryContext(ctx, updateQuery, c)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(&c.UpdatedAt)
}

// Delete removes the report; suspects go with it through ON DELETE CASCADE.
func (r *CrimeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM crime_reports WHERE id=$1`, id)
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
