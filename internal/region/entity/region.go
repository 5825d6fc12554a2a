package entity

// Region is an administrative region reference row.
type Region struct {
	ID   int64  `db:"id" json:"-" yaml:"-"`
	Code string `db:"code" json:"code" yaml:"code" validate:"required,max=10"`
	Name string `db:"name" json:"name" yaml:"name" validate:"required,max=100"`
}
