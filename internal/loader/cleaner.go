package loader

import (
	"strings"

	"github.com/kbellanger/salescope/internal/table"
)

// Outcome records what cleaning did to one column.
type Outcome struct {
	Column string `json:"column"`
	// Action is "date" when the column was coerced to calendar dates,
	// "numeric" when coerced to numbers, "unchanged" when a date-named
	// column could not be parsed and was deliberately left alone.
	Action string `json:"action"`
	// Replaced counts values that became missing during numeric coercion.
	Replaced int `json:"replaced,omitempty"`
}

// Diagnostics surfaces the per-column cleaning outcomes and the row toll.
// The pipeline continues regardless of what it contains.
type Diagnostics struct {
	Outcomes    []Outcome `json:"outcomes"`
	RowsBefore  int       `json:"rows_before"`
	RowsDropped int       `json:"rows_dropped"`
}

// Clean returns a new table where date-named columns hold normalized calendar
// dates, numeric columns hold numbers or missing, and every row containing a
// missing value anywhere is dropped.
//
// Date coercion is per-column all-or-nothing: if any present value fails to
// parse, the whole column is left unchanged and the failure is swallowed.
// Numeric coercion is per-value: failures become missing. The row drop is
// aggressive: one bad cell discards the whole row, so a noisy column can
// eliminate most of a dataset.
func Clean(t *table.Table) (*table.Table, *Diagnostics) {
	ncol := t.NumCols()
	diag := &Diagnostics{RowsBefore: t.NumRows()}

	cols := make([]table.Column, ncol)
	copy(cols, t.Columns)
	rows := make([][]table.Cell, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]table.Cell, ncol)
		copy(rows[i], row)
	}

	for j := 0; j < ncol; j++ {
		name := strings.ToLower(cols[j].Name)
		if !strings.Contains(name, "date") && !strings.Contains(name, "jour") {
			continue
		}
		coerced, ok := coerceDates(rows, j)
		if !ok {
			diag.Outcomes = append(diag.Outcomes, Outcome{Column: cols[j].Name, Action: "unchanged"})
			continue
		}
		for i := range rows {
			rows[i][j] = coerced[i]
		}
		cols[j].Kind = table.Date
		diag.Outcomes = append(diag.Outcomes, Outcome{Column: cols[j].Name, Action: "date"})
	}

	for j := 0; j < ncol; j++ {
		if cols[j].Kind != table.Number {
			continue
		}
		replaced := 0
		for i := range rows {
			c := rows[i][j]
			switch c.Kind {
			case table.Number, table.Missing:
				// already coerced
			default:
				if n, ok := parseNumber(c.Text); ok {
					rows[i][j] = table.NumberCell(n)
				} else {
					rows[i][j] = table.MissingCell()
					replaced++
				}
			}
		}
		diag.Outcomes = append(diag.Outcomes, Outcome{Column: cols[j].Name, Action: "numeric", Replaced: replaced})
	}

	kept := rows[:0]
	for _, row := range rows {
		complete := true
		for _, c := range row {
			if c.Kind == table.Missing {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	diag.RowsDropped = diag.RowsBefore - len(kept)

	out := make([][]table.Cell, len(kept))
	copy(out, kept)
	return &table.Table{Columns: cols, Rows: out}, diag
}

// coerceDates parses every present value of column j as a calendar date.
// Cells that already hold dates pass through, which keeps Clean idempotent.
func coerceDates(rows [][]table.Cell, j int) ([]table.Cell, bool) {
	out := make([]table.Cell, len(rows))
	for i := range rows {
		c := rows[i][j]
		switch c.Kind {
		case table.Date:
			out[i] = c
		case table.Missing:
			out[i] = c
		case table.Text:
			d, ok := parseDate(c.Text)
			if !ok {
				return nil, false
			}
			out[i] = table.DateCell(d)
		default:
			// numeric values in a date-named column are not calendar dates
			return nil, false
		}
	}
	return out, true
}
