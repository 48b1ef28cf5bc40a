// Package filter narrows a record table to a date range and to selected
// region/product value sets before aggregation.
package filter

import (
	"time"

	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/table"
)

// Criteria restricts rows before aggregation. A zero From means the date
// range is unset. Regions and Products are accepted-value sets.
type Criteria struct {
	From     time.Time
	To       time.Time
	Regions  []string
	Products []string
}

// Apply produces a filtered copy of the table. Two conditions combine:
//
//  1. When the date column is date-kind and From is set, rows must fall
//     within [From, To] inclusive.
//  2. When BOTH accepted sets are non-empty, rows must match on region AND
//     product. When either set is empty the whole condition is skipped, so
//     selecting a region with zero products filters nothing. Callers rely
//     on that short-circuit; do not "fix" it to filter per-set.
//
// An empty result table is valid output; Apply never fails.
func Apply(t *table.Table, a classify.Assignment, c Criteria) *table.Table {
	dateIdx := t.ColumnIndex(a.Date)
	dateKind, _ := t.ColumnKind(a.Date)
	byDate := dateIdx >= 0 && dateKind == table.Date && !c.From.IsZero()

	regionIdx := t.ColumnIndex(a.Region)
	productIdx := t.ColumnIndex(a.Product)
	bySet := len(c.Regions) > 0 && len(c.Products) > 0 && regionIdx >= 0 && productIdx >= 0

	regions := toSet(c.Regions)
	products := toSet(c.Products)

	out := &table.Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if byDate {
			cell := row[dateIdx]
			if cell.Kind != table.Date {
				continue
			}
			if cell.Date.Before(c.From) {
				continue
			}
			if !c.To.IsZero() && cell.Date.After(c.To) {
				continue
			}
		}
		if bySet {
			if _, ok := regions[row[regionIdx].String()]; !ok {
				continue
			}
			if _, ok := products[row[productIdx].String()]; !ok {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}
