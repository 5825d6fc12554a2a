package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/listquery"
)

// OfficerIDConstraint names the unique constraint on officer_id.
const OfficerIDConstraint = "personnel_profiles_officer_id_key"

// ProfileRepo is the sqlx repository for personnel_profiles.
type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// EnsureTable creates personnel_profiles if not exists.
func (r *ProfileRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS personnel_profiles (
  id BIGSERIAL PRIMARY KEY,
  id_image TEXT,
  first_name VARCHAR(150) NOT NULL,
  middle_name VARCHAR(150) NOT NULL DEFAULT '',
  last_name VARCHAR(150) NOT NULL,
  suffix VARCHAR(50) NOT NULL DEFAULT '',
  officer_id VARCHAR(100) NOT NULL,
  email VARCHAR(254) NOT NULL DEFAULT '',
  phone VARCHAR(50) NOT NULL DEFAULT '',
  department VARCHAR(150) NOT NULL DEFAULT '',
  section VARCHAR(150) NOT NULL DEFAULT '',
  sex VARCHAR(50) NOT NULL DEFAULT '',
  gender VARCHAR(50) NOT NULL DEFAULT '',
  height VARCHAR(50) NOT NULL DEFAULT '',
  weight VARCHAR(50) NOT NULL DEFAULT '',
  birth_date DATE,
  birth_place VARCHAR(255) NOT NULL DEFAULT '',
  officer_type VARCHAR(100) NOT NULL DEFAULT '',
  regular_officer VARCHAR(100) NOT NULL DEFAULT '',
  civil_status VARCHAR(50) NOT NULL DEFAULT '',
  nationality VARCHAR(100) NOT NULL DEFAULT '',
  religion VARCHAR(100) NOT NULL DEFAULT '',
  lifelong_learner BOOLEAN NOT NULL DEFAULT false,
  indigenous BOOLEAN NOT NULL DEFAULT false,
  residential_address TEXT NOT NULL DEFAULT '',
  residential_region VARCHAR(100) NOT NULL DEFAULT '',
  residential_province VARCHAR(100) NOT NULL DEFAULT '',
  residential_municipality VARCHAR(100) NOT NULL DEFAULT '',
  residential_barangay VARCHAR(100) NOT NULL DEFAULT '',
  permanent_address TEXT NOT NULL DEFAULT '',
  permanent_region VARCHAR(100) NOT NULL DEFAULT '',
  permanent_province VARCHAR(100) NOT NULL DEFAULT '',
  permanent_municipality VARCHAR(100) NOT NULL DEFAULT '',
  permanent_barangay VARCHAR(100) NOT NULL DEFAULT '',
  profile_image TEXT,
  father_first_name VARCHAR(150) NOT NULL DEFAULT '',
  father_middle_name VARCHAR(150) NOT NULL DEFAULT '',
  father_last_name VARCHAR(150) NOT NULL DEFAULT '',
  father_occupation VARCHAR(50) NOT NULL DEFAULT '',
  father_dob DATE,
  father_contact VARCHAR(50) NOT NULL DEFAULT '',
  father_region VARCHAR(100) NOT NULL DEFAULT '',
  father_province VARCHAR(100) NOT NULL DEFAULT '',
  father_municipality VARCHAR(100) NOT NULL DEFAULT '',
  father_barangay VARCHAR(100) NOT NULL DEFAULT '',
  mother_first_name VARCHAR(150) NOT NULL DEFAULT '',
  mother_middle_name VARCHAR(150) NOT NULL DEFAULT '',
  mother_last_name VARCHAR(150) NOT NULL DEFAULT '',
  mother_occupation VARCHAR(50) NOT NULL DEFAULT '',
  mother_dob DATE,
  mother_contact VARCHAR(50) NOT NULL DEFAULT '',
  mother_region VARCHAR(100) NOT NULL DEFAULT '',
  mother_province VARCHAR(100) NOT NULL DEFAULT '',
  mother_municipality VARCHAR(100) NOT NULL DEFAULT '',
  mother_barangay VARCHAR(100) NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  is_archived BOOLEAN NOT NULL DEFAULT false,
  CONSTRAINT ` + OfficerIDConstraint + ` UNIQUE (officer_id)
);
CREATE INDEX IF NOT EXISTS idx_personnel_profiles_is_archived ON personnel_profiles(is_archived);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

var writable = []string{
	"id_image", "first_name", "middle_name", "last_name", "suffix", "officer_id", "email", "phone",
	"department", "section", "sex", "gender", "height", "weight", "birth_date", "birth_place",
	"officer_type", "regular_officer", "civil_status", "nationality", "religion",
	"lifelong_learner", "indigenous",
	"residential_address", "residential_region", "residential_province", "residential_municipality", "residential_barangay",
	"permanent_address", "permanent_region", "permanent_province", "permanent_municipality", "permanent_barangay",
	"profile_image",
	"father_first_name", "father_middle_name", "father_last_name", "father_occupation", "father_dob",
	"father_contact", "father_region", "father_province", "father_municipality", "father_barangay",
	"mother_first_name", "mother_middle_name", "mother_last_name", "mother_occupation", "mother_dob",
	"mother_contact", "mother_region", "mother_province", "mother_municipality", "mother_barangay",
	"is_archived",
}

var (
	selectColumns = "id, " + strings.Join(writable, ", ") + ", created_at, updated_at"
	insertQuery   = database.NamedInsert("personnel_profiles", writable, "id, created_at, updated_at")
	updateQuery   = `UPDATE personnel_profiles SET ` + database.NamedSet(writable) + `, updated_at=NOW() WHERE id=:id RETURNING updated_at`
)

// OrderingFields are the accepted ordering parameter values.
var OrderingFields = []string{"created_at", "id"}

func (r *ProfileRepo) List(ctx context.Context, f entity.ListFilter) ([]entity.Profile, error) {
	var w listquery.Filter
	if f.IsArchived != nil {
		w.Where("is_archived = ?", *f.IsArchived)
	}
	q := `SELECT ` + selectColumns + ` FROM personnel_profiles` + w.Clause() +
		` ORDER BY ` + listquery.OrderBy(f.Ordering, OrderingFields, "-created_at")
	out := []entity.Profile{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.Args()...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.db.GetContext(ctx, &p, `SELECT `+selectColumns+` FROM personnel_profiles WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// OfficerIDTaken reports whether another profile (id != exceptID) uses
// officerID.
func (r *ProfileRepo) OfficerIDTaken(ctx context.Context, officerID string, exceptID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM personnel_profiles WHERE officer_id=$1 AND id<>$2)`, officerID, exceptID)
	return ok, err
}

func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	rows, err := r.db.NamedQueryContext(ctx, insertQuery, p)
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
	return rows.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update writes every writable column; sql.ErrNoRows when the row is gone.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	rows, err := r.db.NamedQueryContext(ctx, updateQuery, p)
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
	return rows.Scan(&p.UpdatedAt)
}

// Archive sets only is_archived; updated_at is left alone.
func (r *ProfileRepo) Archive(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE personnel_profiles SET is_archived=true WHERE id=$1`, id)
}

func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM personnel_profiles WHERE id=$1`, id)
}

func (r *ProfileRepo) exec(ctx context.Context, q string, id int64) error {
	res, err := r.db.ExecContext(ctx, q, id)
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
