package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"juan", "dela", "cruz"}, Terms(" juan, dela  cruz "))
	assert.Empty(t, Terms(""))
	assert.Empty(t, Terms(" , "))
}

func TestFilterSearch(t *testing.T) {
	var f Filter
	f.Where("is_archived = ?", false)
	f.Search("theft 50%", "crime_type", "v_first_name")

	assert.Equal(t,
		" WHERE is_archived = ? AND (crime_type ILIKE ? OR v_first_name ILIKE ?) AND (crime_type ILIKE ? OR v_first_name ILIKE ?)",
		f.Clause())
	assert.Equal(t, []any{false, "%theft%", "%theft%", `%50\%%`, `%50\%%`}, f.Args())
}

func TestFilterEmpty(t *testing.T) {
	var f Filter
	f.Search("   ", "a")
	assert.Equal(t, "", f.Clause())
	assert.Empty(t, f.Args())
}

func TestOrderBy(t *testing.T) {
	allowed := []string{"created_at", "happened_at"}
	assert.Equal(t, "created_at DESC, id DESC", OrderBy("", allowed, "-created_at"))
	assert.Equal(t, "happened_at ASC, id ASC", OrderBy("happened_at", allowed, "-created_at"))
	assert.Equal(t, "happened_at DESC, created_at ASC, id DESC", OrderBy("-happened_at,bogus,created_at", allowed, "-created_at"))
	assert.Equal(t, "created_at DESC, id DESC", OrderBy("password", allowed, "-created_at"))
	assert.Equal(t, "id ASC", OrderBy("id", []string{"created_at", "id"}, "-created_at"))
}
