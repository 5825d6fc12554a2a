package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/civil"
)

// Occupations are the accepted parent occupation values besides blank.
var Occupations = []string{"Housewife", "Employed", "Self-Employed", "OFW"}

// Profile is the HR record of one officer. It is independent of login
// accounts.
type Profile struct {
	ID int64 `db:"id" json:"id"`

	IDImage    *string `db:"id_image" json:"id_image"`
	FirstName  string  `db:"first_name" json:"first_name"`
	MiddleName string  `db:"middle_name" json:"middle_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	Suffix     string  `db:"suffix" json:"suffix"`
	OfficerID  string  `db:"officer_id" json:"officer_id"`
	Email      string  `db:"email" json:"email"`
	Phone      string  `db:"phone" json:"phone"`

	Department     string      `db:"department" json:"department"`
	Section        string      `db:"section" json:"section"`
	Sex            string      `db:"sex" json:"sex"`
	Gender         string      `db:"gender" json:"gender"`
	Height         string      `db:"height" json:"height"`
	Weight         string      `db:"weight" json:"weight"`
	BirthDate      *civil.Date `db:"birth_date" json:"birth_date"`
	BirthPlace     string      `db:"birth_place" json:"birth_place"`
	OfficerType    string      `db:"officer_type" json:"officer_type"`
	RegularOfficer string      `db:"regular_officer" json:"regular_officer"`
	CivilStatus    string      `db:"civil_status" json:"civil_status"`
	Nationality    string      `db:"nationality" json:"nationality"`
	Religion       string      `db:"religion" json:"religion"`

	LifelongLearner bool `db:"lifelong_learner" json:"lifelong_learner"`
	Indigenous      bool `db:"indigenous" json:"indigenous"`

	ResidentialAddress      string `db:"residential_address" json:"residential_address"`
	ResidentialRegion       string `db:"residential_region" json:"residential_region"`
	ResidentialProvince     string `db:"residential_province" json:"residential_province"`
	ResidentialMunicipality string `db:"residential_municipality" json:"residential_municipality"`
	ResidentialBarangay     string `db:"residential_barangay" json:"residential_barangay"`

	PermanentAddress      string `db:"permanent_address" json:"permanent_address"`
	PermanentRegion       string `db:"permanent_region" json:"permanent_region"`
	PermanentProvince     string `db:"permanent_province" json:"permanent_province"`
	PermanentMunicipality string `db:"permanent_municipality" json:"permanent_municipality"`
	PermanentBarangay     string `db:"permanent_barangay" json:"permanent_barangay"`

	ProfileImage *string `db:"profile_image" json:"profile_image"`

	FatherFirstName    string      `db:"father_first_name" json:"father_first_name"`
	FatherMiddleName   string      `db:"father_middle_name" json:"father_middle_name"`
	FatherLastName     string      `db:"father_last_name" json:"father_last_name"`
	FatherOccupation   string      `db:"father_occupation" json:"father_occupation"`
	FatherDOB          *civil.Date `db:"father_dob" json:"father_dob"`
	FatherContact      string      `db:"father_contact" json:"father_contact"`
	FatherRegion       string      `db:"father_region" json:"father_region"`
	FatherProvince     string      `db:"father_province" json:"father_province"`
	FatherMunicipality string      `db:"father_municipality" json:"father_municipality"`
	FatherBarangay     string      `db:"father_barangay" json:"father_barangay"`

	MotherFirstName    string      `db:"mother_first_name" json:"mother_first_name"`
	MotherMiddleName   string      `db:"mother_middle_name" json:"mother_middle_name"`
	MotherLastName     string      `db:"mother_last_name" json:"mother_last_name"`
	MotherOccupation   string      `db:"mother_occupation" json:"mother_occupation"`
	MotherDOB          *civil.Date `db:"mother_dob" json:"mother_dob"`
	MotherContact      string      `db:"mother_contact" json:"mother_contact"`
	MotherRegion       string      `db:"mother_region" json:"mother_region"`
	MotherProvince     string      `db:"mother_province" json:"mother_province"`
	MotherMunicipality string      `db:"mother_municipality" json:"mother_municipality"`
	MotherBarangay     string      `db:"mother_barangay" json:"mother_barangay"`

	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	IsArchived bool      `db:"is_archived" json:"is_archived"`
}

// ListFilter selects profiles for listing. A nil IsArchived lists both.
type ListFilter struct {
	IsArchived *bool
	Ordering   string
}
