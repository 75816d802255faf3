package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeAny adds a case-insensitive substring match of q over columns, OR-ed
// together. Postgres uses ILIKE, other dialects compare lower-cased values.
func likeAny(db *gorm.DB, q string, columns ...string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" || len(columns) == 0 {
		return db
	}

	pattern := likePattern(q)
	op := "LOWER(%s) LIKE ? ESCAPE '!'"
	if strings.EqualFold(db.Dialector.Name(), "postgres") {
		op = "%s ILIKE ? ESCAPE '!'"
	}

	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = strings.Replace(op, "%s", col, 1)
		args[i] = pattern
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

// "!" is the escape character; a backslash would need dialect-specific quoting.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern matches q literally anywhere in a value.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
