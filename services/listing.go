package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions carries the free-text search and ordering requested by a caller.
type ListOptions struct {
	// Search is split on whitespace; every term must match at least one search column.
	Search string
	// Ordering holds field names, "-" prefixed for descending.
	Ordering []string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch adds a case-insensitive substring match over columns for each search term.
func applySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	terms := strings.Fields(search)
	if len(terms) == 0 || len(columns) == 0 {
		return db
	}

	for _, term := range terms {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

// applyOrdering orders by the requested fields that appear in allowed, falling back to
// defaults. The table's primary key is always appended as a tie-breaker.
func applyOrdering(db *gorm.DB, table string, requested []string, allowed map[string]clause.Column, defaults ...clause.OrderByColumn) *gorm.DB {
	columns := make([]clause.OrderByColumn, 0, len(requested)+1)
	for _, field := range requested {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		col, ok := allowed[strings.TrimPrefix(field, "-")]
		if !ok {
			continue
		}
		columns = append(columns, clause.OrderByColumn{Column: col, Desc: desc})
	}
	if len(columns) == 0 {
		columns = append(columns, defaults...)
	}
	columns = append(columns, clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}})
	return db.Order(clause.OrderBy{Columns: columns})
}

// byPosition orders a table by its "order" column, then id.
func byPosition(table string) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: "order"}},
		{Column: clause.Column{Table: table, Name: "id"}},
	}}
}

func column(table, name string) clause.Column {
	return clause.Column{Table: table, Name: name}
}

func ascending(table, name string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: column(table, name)}
}
