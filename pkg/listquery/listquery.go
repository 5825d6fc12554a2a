// Package listquery turns list query parameters (search, ordering, simple
// filters) into SQL fragments with bindvar placeholders. Fragments use "?"
// and are meant to be passed through sqlx.DB.Rebind.
package listquery

import (
	"strings"
)

// Filter accumulates AND-ed WHERE conditions.
type Filter struct {
	conds []string
	args  []any
}

// Where adds a condition written with "?" placeholders.
func (f *Filter) Where(cond string, args ...any) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

// Search adds one condition per search term. A row matches a term when any
// of columns contains it case-insensitively; every term must match.
func (f *Filter) Search(raw string, columns ...string) {
	if len(columns) == 0 {
		return
	}
	for _, term := range Terms(raw) {
		pattern := "%" + escapeLike(term) + "%"
		ors := make([]string, len(columns))
		for i, c := range columns {
			ors[i] = c + " ILIKE ?"
			f.args = append(f.args, pattern)
		}
		f.conds = append(f.conds, "("+strings.Join(ors, " OR ")+")")
	}
}

// Clause renders " WHERE ..." or the empty string.
func (f *Filter) Clause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns the bind arguments in placeholder order.
func (f *Filter) Args() []any { return f.args }

// Terms splits a search parameter on whitespace and commas.
func Terms(raw string) []string {
	raw = strings.ReplaceAll(raw, "\x00", "")
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// OrderBy renders an ORDER BY list from a comma-separated ordering parameter
// ("-created_at,id"). Unknown fields are dropped; when nothing valid remains
// def is used. An id tiebreaker is appended so pages are stable.
func OrderBy(raw string, allowed []string, def string) string {
	var parts []string
	hasID := false
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		dir := "ASC"
		if strings.HasPrefix(term, "-") {
			dir = "DESC"
			term = term[1:]
		}
		if term == "" || !contains(allowed, term) {
			continue
		}
		if term == "id" {
			hasID = true
		}
		parts = append(parts, term+" "+dir)
	}
	if len(parts) == 0 {
		return OrderBy(def, []string{strings.TrimPrefix(def, "-"), "id"}, "id")
	}
	if !hasID {
		parts = append(parts, "id "+strings.Fields(parts[0])[1])
	}
	return strings.Join(parts, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// escapeLike escapes LIKE metacharacters using the default backslash escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
