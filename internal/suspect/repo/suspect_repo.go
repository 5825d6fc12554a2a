package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	crimeentity "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/incident"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/listquery"
)

// SuspectRepo is the sqlx repository for suspects.
type SuspectRepo struct {
	db *sqlx.DB
}

func NewSuspectRepo(db *sqlx.DB) *SuspectRepo {
	return &SuspectRepo{db: db}
}

// EnsureTable creates suspects if not exists. crime_reports must exist
// first.
func (r *SuspectRepo) EnsureTable(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS suspects (
  id BIGSERIAL PRIMARY KEY,
  crime_report_id BIGINT NOT NULL,
  s_first_name VARCHAR(120) NOT NULL DEFAULT '',
  s_middle_name VARCHAR(120) NOT NULL DEFAULT '',
  s_last_name VARCHAR(120) NOT NULL DEFAULT '',
  s_age VARCHAR(10) NOT NULL DEFAULT '',
  s_crime_type VARCHAR(100) NOT NULL DEFAULT '',
  s_address VARCHAR(255) NOT NULL DEFAULT '',
  s_region VARCHAR(120) NOT NULL DEFAULT '',
  s_province VARCHAR(120) NOT NULL DEFAULT '',
  s_city_municipality VARCHAR(120) NOT NULL DEFAULT '',
  s_city_mun_kind VARCHAR(30) NOT NULL DEFAULT '',
  s_barangay VARCHAR(120) NOT NULL DEFAULT '',
  s_region_code VARCHAR(20) NOT NULL DEFAULT '',
  s_province_code VARCHAR(20) NOT NULL DEFAULT '',
  s_city_mun_code VARCHAR(20) NOT NULL DEFAULT '',
  s_barangay_code VARCHAR(20) NOT NULL DEFAULT '',
  s_photo TEXT,` + incident.DDL + `
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT suspects_crime_report_id_fkey FOREIGN KEY (crime_report_id)
    REFERENCES crime_reports(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_suspects_crime_report_id ON suspects(crime_report_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

var writable = database.Columns([]string{
	"crime_report_id",
	"s_first_name", "s_middle_name", "s_last_name", "s_age", "s_crime_type",
	"s_address", "s_region", "s_province", "s_city_municipality", "s_city_mun_kind",
	"s_barangay", "s_region_code", "s_province_code", "s_city_mun_code", "s_barangay_code",
	"s_photo",
}, incident.Columns)

var (
	selectColumns = "id, " + strings.Join(writable, ", ") + ", created_at, updated_at"
	insertQuery   = database.NamedInsert("suspects", writable, "id, created_at, updated_at")
	updateQuery   = `UPDATE suspects SET ` + database.NamedSet(writable) + `, updated_at=NOW() WHERE id=:id RETURNING updated_at`
)

// OrderingFields are the accepted ordering parameter values.
var OrderingFields = []string{"created_at"}

// SearchColumns are matched by the search parameter.
var SearchColumns = []string{
	"s_first_name", "s_middle_name", "s_last_name",
	"s_barangay", "s_city_municipality", "s_province",
	"loc_barangay", "loc_city_municipality", "loc_province",
}

func (r *SuspectRepo) List(ctx context.Context, f entity.ListFilter) ([]entity.Suspect, error) {
	var w listquery.Filter
	w.Search(f.Search, SearchColumns...)
	q := `SELECT ` + selectColumns + ` FROM suspects` + w.Clause() +
		` ORDER BY ` + listquery.OrderBy(f.Ordering, OrderingFields, "-created_at")
	out := []entity.Suspect{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.Args()...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SuspectRepo) GetByID(ctx context.Context, id int64) (*entity.Suspect, error) {
	var s entity.Suspect
	if err := r.db.GetContext(ctx, &s, `SELECT `+selectColumns+` FROM suspects WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SuspectRepo) Create(ctx context.Context, s *entity.Suspect) error {
	rows, err := r.db.NamedQueryContext(ctx, insertQuery, s)
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
	return rows.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update writes every writable column; sql.ErrNoRows when the row is gone.
func (r *SuspectRepo) Update(ctx context.Context, s *entity.Suspect) error {
	rows, err := r.db.NamedQueryContext(ctx, updateQuery, s)
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
	return rows.Scan(&s.UpdatedAt)
}

func (r *SuspectRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suspects WHERE id=$1`, id)
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

// SummariesFor returns the suspect summaries of the given reports keyed by
// report id, newest first like the suspect list.
func (r *SuspectRepo) SummariesFor(ctx context.Context, crimeIDs []int64) (map[int64][]crimeentity.SuspectSummary, error) {
	const q = `SELECT id, crime_report_id,
		concat_ws(' ', NULLIF(s_first_name, ''), NULLIF(s_middle_name, ''), NULLIF(s_last_name, '')) AS name,
		s_crime_type
		FROM suspects WHERE crime_report_id = ANY($1) ORDER BY created_at DESC, id DESC`
	var rows []crimeentity.SuspectSummary
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(crimeIDs)); err != nil {
		return nil, err
	}
	out := make(map[int64][]crimeentity.SuspectSummary, len(crimeIDs))
	for _, s := range rows {
		out[s.CrimeID] = append(out[s.CrimeID], s)
	}
	return out, nil
}
