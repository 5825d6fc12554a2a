package entity

import (
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/incident"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/civil"
)

// CrimeTypes are the accepted crime_type values besides blank.
var CrimeTypes = []string{
	"Theft", "Robbery", "Assault", "Homicide", "Illegal Fishing",
	"Smuggling", "Drugs", "Vandalism", "Fraud", "Others",
}

// Statuses are the accepted status values; Ongoing is the default.
var Statuses = []string{"Ongoing", "Solved", "Unsolved"}

const StatusOngoing = "Ongoing"

// CrimeReport is one case with its victim block and incident location.
type CrimeReport struct {
	ID          int64       `db:"id" json:"id"`
	CrimeType   string      `db:"crime_type" json:"crime_type"`
	Description string      `db:"description" json:"description"`
	HappenedAt  *civil.Date `db:"happened_at" json:"happened_at"`
	Status      string      `db:"status" json:"status"`

	VFirstName        string  `db:"v_first_name" json:"v_first_name"`
	VMiddleName       string  `db:"v_middle_name" json:"v_middle_name"`
	VLastName         string  `db:"v_last_name" json:"v_last_name"`
	VAge              string  `db:"v_age" json:"v_age"`
	VAddress          string  `db:"v_address" json:"v_address"`
	VRegion           string  `db:"v_region" json:"v_region"`
	VProvince         string  `db:"v_province" json:"v_province"`
	VCityMunicipality string  `db:"v_city_municipality" json:"v_city_municipality"`
	VCityMunKind      string  `db:"v_city_mun_kind" json:"v_city_mun_kind"`
	VBarangay         string  `db:"v_barangay" json:"v_barangay"`
	VRegionCode       string  `db:"v_region_code" json:"v_region_code"`
	VProvinceCode     string  `db:"v_province_code" json:"v_province_code"`
	VCityMunCode      string  `db:"v_city_mun_code" json:"v_city_mun_code"`
	VBarangayCode     string  `db:"v_barangay_code" json:"v_barangay_code"`
	VPhoto            *string `db:"v_photo" json:"v_photo"`

	incident.Location

	IsArchived bool      `db:"is_archived" json:"is_archived"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// VictimFullName joins the non-blank victim name parts.
func (c *CrimeReport) VictimFullName() string {
	return JoinName(c.VFirstName, c.VMiddleName, c.VLastName)
}

// SuspectSummary is the short suspect form embedded in crime responses.
type SuspectSummary struct {
	ID         int64  `db:"id" json:"id"`
	CrimeID    int64  `db:"crime_report_id" json:"-"`
	Name       string `db:"name" json:"name"`
	SCrimeType string `db:"s_crime_type" json:"s_crime_type"`
}

// ListFilter selects crime reports for listing.
type ListFilter struct {
	Search          string
	Ordering        string
	IncludeArchived bool
}

// JoinName joins name parts with single spaces, skipping blanks.
func JoinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
