package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// SortColumns whitelists the columns a listing may be ordered by
type SortColumns struct {
	allowed  map[string]bool
	fallback string
}

// NewSortColumns creates a whitelist. fallback is used for empty or unknown
// fields and must itself be a real column.
func NewSortColumns(fallback string, columns ...string) SortColumns {
	allowed := make(map[string]bool, len(columns)+1)
	allowed[fallback] = true
	for _, c := range columns {
		allowed[c] = true
	}
	return SortColumns{allowed: allowed, fallback: fallback}
}

// ProductSortColumns are the product listing sort keys
var ProductSortColumns = NewSortColumns("created_at", "updated_at", "name", "price")

// OrderBy resolves a client supplied field and direction to an ORDER BY
// column. Anything but "asc" sorts descending.
func (s SortColumns) OrderBy(field, dir string) clause.OrderByColumn {
	column := strings.TrimSpace(field)
	if !s.allowed[column] {
		column = s.fallback
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}
