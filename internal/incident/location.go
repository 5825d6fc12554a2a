// Package incident holds the incident-location block shared by crime
// reports and suspects. Both tables carry the same loc_* columns, so one
// struct embedded in each entity serves the database, JSON and form
// binding.
package incident

import "github.com/ovaphlow/pitchfork/service-records-go/pkg/httpx"

// Kinds are the accepted loc_kind values besides blank.
var Kinds = []string{"marine", "coastal", "inland", "unknown"}

type Location struct {
	Address          string `db:"loc_address" json:"loc_address"`
	Region           string `db:"loc_region" json:"loc_region"`
	Province         string `db:"loc_province" json:"loc_province"`
	CityMunicipality string `db:"loc_city_municipality" json:"loc_city_municipality"`
	CityMunKind      string `db:"loc_city_mun_kind" json:"loc_city_mun_kind"`
	Barangay         string `db:"loc_barangay" json:"loc_barangay"`
	RegionCode       string `db:"loc_region_code" json:"loc_region_code"`
	ProvinceCode     string `db:"loc_province_code" json:"loc_province_code"`
	CityMunCode      string `db:"loc_city_mun_code" json:"loc_city_mun_code"`
	BarangayCode     string `db:"loc_barangay_code" json:"loc_barangay_code"`
	Latitude         string `db:"latitude" json:"latitude"`
	Longitude        string `db:"longitude" json:"longitude"`
	Kind             string `db:"loc_kind" json:"loc_kind"`
	Waterbody        string `db:"loc_waterbody" json:"loc_waterbody"`
}

// Columns lists the location columns in table order.
var Columns = []string{
	"loc_address", "loc_region", "loc_province", "loc_city_municipality", "loc_city_mun_kind",
	"loc_barangay", "loc_region_code", "loc_province_code", "loc_city_mun_code", "loc_barangay_code",
	"latitude", "longitude", "loc_kind", "loc_waterbody",
}

// DDL is the column list for CREATE TABLE statements.
const DDL = `
  loc_address VARCHAR(255) NOT NULL DEFAULT '',
  loc_region VARCHAR(120) NOT NULL DEFAULT '',
  loc_province VARCHAR(120) NOT NULL DEFAULT '',
  loc_city_municipality VARCHAR(120) NOT NULL DEFAULT '',
  loc_city_mun_kind VARCHAR(30) NOT NULL DEFAULT '',
  loc_barangay VARCHAR(120) NOT NULL DEFAULT '',
  loc_region_code VARCHAR(20) NOT NULL DEFAULT '',
  loc_province_code VARCHAR(20) NOT NULL DEFAULT '',
  loc_city_mun_code VARCHAR(20) NOT NULL DEFAULT '',
  loc_barangay_code VARCHAR(20) NOT NULL DEFAULT '',
  latitude VARCHAR(50) NOT NULL DEFAULT '',
  longitude VARCHAR(50) NOT NULL DEFAULT '',
  loc_kind VARCHAR(20) NOT NULL DEFAULT '',
  loc_waterbody VARCHAR(120) NOT NULL DEFAULT '',`

// Bind copies the loc_* fields present in the payload onto l.
func (l *Location) Bind(b *httpx.Binder) {
	b.Texts([]httpx.TextField{
		{Name: "loc_address", Dst: &l.Address, Max: 255},
		{Name: "loc_region", Dst: &l.Region, Max: 120},
		{Name: "loc_province", Dst: &l.Province, Max: 120},
		{Name: "loc_city_municipality", Dst: &l.CityMunicipality, Max: 120},
		{Name: "loc_city_mun_kind", Dst: &l.CityMunKind, Max: 30},
		{Name: "loc_barangay", Dst: &l.Barangay, Max: 120},
		{Name: "loc_region_code", Dst: &l.RegionCode, Max: 20},
		{Name: "loc_province_code", Dst: &l.ProvinceCode, Max: 20},
		{Name: "loc_city_mun_code", Dst: &l.CityMunCode, Max: 20},
		{Name: "loc_barangay_code", Dst: &l.BarangayCode, Max: 20},
		{Name: "latitude", Dst: &l.Latitude, Max: 50},
		{Name: "longitude", Dst: &l.Longitude, Max: 50},
		{Name: "loc_waterbody", Dst: &l.Waterbody, Max: 120},
	})
	b.Choice("loc_kind", &l.Kind, Kinds, true)
}
