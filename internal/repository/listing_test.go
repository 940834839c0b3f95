package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchClauseBlank(t *testing.T) {
	where, args := searchClause("name", "")
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)

	where, args = searchClause("name", "   ")
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestSearchClauseSingleColumn(t *testing.T) {
	where, args := searchClause("name", "Printer")
	assert.Equal(t, "(LOWER(name) LIKE $1)", where)
	assert.Equal(t, []any{"%printer%"}, args)
}

func TestSearchClauseMultipleColumns(t *testing.T) {
	where, args := searchClause("title, description", "VPN")
	assert.Equal(t, "(LOWER(title) LIKE $1 OR LOWER(description) LIKE $1)", where)
	assert.Equal(t, []any{"%vpn%"}, args)
}

func TestClampPage(t *testing.T) {
	limit, offset := clampPage(0, -5)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = clampPage(50, 100)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 100, offset)
}
