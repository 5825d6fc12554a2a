package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
)

func TestVar(t *testing.T) {
	cases := []struct {
		value any
		tag   string
		want  []string
	}{
		{"", "required", []string{MsgBlank}},
		{"abcdef", "max=5", []string{"Ensure this field has no more than 5 characters."}},
		{"ééééé", "max=5", nil},
		{"Farmer", OneOf([]string{"Employed", "Self-Employed"}), []string{`"Farmer" is not a valid choice.`}},
		{"Illegal Fishing", OneOf([]string{"Theft", "Illegal Fishing"}), nil},
		{"12a", "number", []string{MsgPKValue}},
		{"ana@", "email", []string{MsgEmail}},
		{"Ana <ana@example.com>", "email", []string{MsgEmail}},
		{"ana@example.com", "email", nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, nilIfEmpty(Var(c.value, c.tag)), "%v against %s", c.value, c.tag)
	}
}

func TestCheckRecordsOnField(t *testing.T) {
	verr := &apperr.ValidationError{}
	assert.True(t, Check(verr, "name", "ok", "required,max=10"))
	assert.False(t, Check(verr, "code", "", "required,max=10"))
	assert.Equal(t, []string{MsgBlank}, verr.Fields["code"])
	assert.False(t, verr.Has("name"))
}

func TestStructUsesSerializedNames(t *testing.T) {
	type row struct {
		Code string `json:"code" validate:"required,max=2"`
		Name string `yaml:"name" validate:"required"`
	}
	errs := Struct(row{Code: "abc"})
	require.Len(t, errs, 2)
	assert.Equal(t, []string{"Ensure this field has no more than 2 characters."}, errs["code"])
	assert.Equal(t, []string{MsgBlank}, errs["name"])

	assert.Nil(t, Struct(row{Code: "01", Name: "Ilocos"}))
}

func TestTags(t *testing.T) {
	assert.Equal(t, "required,max=3", Tags("required", Max(3)))
	assert.Equal(t, "required", Tags("required", Max(0)))
	assert.Equal(t, "", Tags(""))
	assert.Equal(t, "oneof=A 'B C'", OneOf([]string{"A", "B C"}))
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
