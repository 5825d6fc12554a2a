package database

import "strings"

// NamedInsert renders an INSERT for sqlx named binding:
// INSERT INTO table (a, b) VALUES (:a, :b) RETURNING returning.
func NamedInsert(table string, cols []string, returning string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(":" + c)
	}
	b.WriteString(")")
	if returning != "" {
		b.WriteString(" RETURNING " + returning)
	}
	return b.String()
}

// NamedSet renders "a=:a, b=:b" for an UPDATE.
func NamedSet(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + "=:" + c
	}
	return strings.Join(parts, ", ")
}

// Columns concatenates column groups into a new slice.
func Columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
