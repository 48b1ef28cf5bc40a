// Package classify guesses which columns of a record table play which
// analytical role. The heuristics are deliberately name-based and stable:
// downstream behavior depends on them being reproducible, so they must never
// inspect cell values for product/region detection.
package classify

import (
	"errors"
	"strings"

	"github.com/kbellanger/salescope/internal/table"
)

// Candidates lists, per role, the columns that look like a fit.
// Absence of a match yields an empty list, never an error.
type Candidates struct {
	Date    []string `json:"date"`
	Numeric []string `json:"numeric"`
	Product []string `json:"product"`
	Region  []string `json:"region"`
}

// Assignment maps each role to a chosen column name.
type Assignment struct {
	Date    string `json:"date"`
	Value   string `json:"value"`
	Product string `json:"product"`
	Region  string `json:"region"`
}

// Overrides are user-chosen columns; empty fields defer to the candidates.
type Overrides struct {
	Date    string `json:"date"`
	Value   string `json:"value"`
	Product string `json:"product"`
	Region  string `json:"region"`
}

var (
	ErrNoColumns       = errors.New("table has no columns")
	ErrNoNumericColumn = errors.New("no usable numeric column")
)

// Detect inspects column names and declared kinds. Declared date kind wins
// over name matching for dates; the name fallback ("date"/"jour") only
// applies when no column is date-typed.
func Detect(t *table.Table) Candidates {
	var c Candidates
	for _, col := range t.Columns {
		if col.Kind == table.Date {
			c.Date = append(c.Date, col.Name)
		}
		if col.Kind == table.Number {
			c.Numeric = append(c.Numeric, col.Name)
		}
		name := strings.ToLower(col.Name)
		if strings.Contains(name, "produit") || strings.Contains(name, "product") {
			c.Product = append(c.Product, col.Name)
		}
		if strings.Contains(name, "région") || strings.Contains(name, "region") {
			c.Region = append(c.Region, col.Name)
		}
	}
	if len(c.Date) == 0 {
		for _, col := range t.Columns {
			name := strings.ToLower(col.Name)
			if strings.Contains(name, "date") || strings.Contains(name, "jour") {
				c.Date = append(c.Date, col.Name)
			}
		}
	}
	return c
}

// Resolve turns candidates plus user overrides into a concrete assignment.
// Date, product, and region fall back to the first column of the table when
// nothing matched. The value role has no such fallback: summing a text column
// is meaningless, so an empty numeric candidate list is an error.
func Resolve(t *table.Table, c Candidates, o Overrides) (Assignment, error) {
	if t.NumCols() == 0 {
		return Assignment{}, ErrNoColumns
	}
	first := t.Columns[0].Name

	var a Assignment
	a.Date = pick(t, o.Date, c.Date, first)
	a.Product = pick(t, o.Product, c.Product, first)
	a.Region = pick(t, o.Region, c.Region, first)

	if o.Value != "" {
		if k, ok := t.ColumnKind(o.Value); !ok || k != table.Number {
			return Assignment{}, ErrNoNumericColumn
		}
		a.Value = o.Value
		return a, nil
	}
	if len(c.Numeric) == 0 {
		return Assignment{}, ErrNoNumericColumn
	}
	a.Value = c.Numeric[0]
	return a, nil
}

func pick(t *table.Table, override string, candidates []string, fallback string) string {
	if override != "" && t.ColumnIndex(override) >= 0 {
		return override
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return fallback
}
