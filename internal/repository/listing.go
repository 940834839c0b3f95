package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// searchClause builds a case-insensitive substring predicate over the given
// columns, or a pass-through clause when search is blank.
func searchClause(columns string, search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "1=1", []any{}
	}
	args := []any{"%" + strings.ToLower(search) + "%"}
	parts := strings.Split(columns, ",")
	predicates := make([]string, 0, len(parts))
	for _, col := range parts {
		predicates = append(predicates, fmt.Sprintf("LOWER(%s) LIKE $1", strings.TrimSpace(col)))
	}
	return "(" + strings.Join(predicates, " OR ") + ")", args
}

// clampPage normalizes pagination parameters.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
