package repositories

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// applySort translates the whitelisted sort directives of a list filter
// into an ORDER BY clause, falling back to a stable default.
func applySort(b sq.SelectBuilder, sort map[string]string, allowed map[string]string, defaultOrder string) sq.SelectBuilder {
	orders := []string{}
	for field, direction := range sort {
		dbField, ok := allowed[field]
		if !ok {
			continue
		}
		order := "ASC"
		if strings.EqualFold(direction, "desc") {
			order = "DESC"
		}
		orders = append(orders, dbField+" "+order)
	}
	if len(orders) == 0 {
		return b.OrderBy(defaultOrder)
	}
	return b.OrderBy(orders...)
}
