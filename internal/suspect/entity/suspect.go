package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/incident"
)

// Suspect is a person linked to exactly one crime report.
type Suspect struct {
	ID            int64 `db:"id" json:"id"`
	CrimeReportID int64 `db:"crime_report_id" json:"crime_report"`

	SFirstName        string  `db:"s_first_name" json:"s_first_name"`
	SMiddleName       string  `db:"s_middle_name" json:"s_middle_name"`
	SLastName         string  `db:"s_last_name" json:"s_last_name"`
	SAge              string  `db:"s_age" json:"s_age"`
	SCrimeType        string  `db:"s_crime_type" json:"s_crime_type"`
	SAddress          string  `db:"s_address" json:"s_address"`
	SRegion           string  `db:"s_region" json:"s_region"`
	SProvince         string  `db:"s_province" json:"s_province"`
	SCityMunicipality string  `db:"s_city_municipality" json:"s_city_municipality"`
	SCityMunKind      string  `db:"s_city_mun_kind" json:"s_city_mun_kind"`
	SBarangay         string  `db:"s_barangay" json:"s_barangay"`
	SRegionCode       string  `db:"s_region_code" json:"s_region_code"`
	SProvinceCode     string  `db:"s_province_code" json:"s_province_code"`
	SCityMunCode      string  `db:"s_city_mun_code" json:"s_city_mun_code"`
	SBarangayCode     string  `db:"s_barangay_code" json:"s_barangay_code"`
	SPhoto            *string `db:"s_photo" json:"s_photo"`

	incident.Location

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ListFilter selects suspects for listing.
type ListFilter struct {
	Search   string
	Ordering string
}
