package table

import (
	"strconv"
	"time"
)

// Kind is the semantic type of a cell or column.
type Kind int

const (
	Text Kind = iota
	Number
	Date
	Missing
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Date:
		return "date"
	case Missing:
		return "missing"
	default:
		return "text"
	}
}

// Cell is a single value in a table. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

func TextCell(s string) Cell      { return Cell{Kind: Text, Text: s} }
func NumberCell(f float64) Cell   { return Cell{Kind: Number, Number: f} }
func DateCell(t time.Time) Cell   { return Cell{Kind: Date, Date: t} }
func MissingCell() Cell           { return Cell{Kind: Missing} }

// String renders the cell for previews, group labels, and set membership.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case Date:
		return c.Date.Format("2006-01-02")
	case Missing:
		return ""
	default:
		return c.Text
	}
}

// Column carries a name and the declared kind of its cells.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered set of named columns and rows of cells.
// Pipeline stages replace tables wholesale; none mutates one in place.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

func (t *Table) NumRows() int { return len(t.Rows) }
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnKind returns the declared kind of the named column.
func (t *Table) ColumnKind(name string) (Kind, bool) {
	if i := t.ColumnIndex(name); i >= 0 {
		return t.Columns[i].Kind, true
	}
	return Text, false
}

// Distinct returns the unique display values of a column in encounter order.
func (t *Table) Distinct(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		v := row[idx].String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DateRange returns the min and max values of a date column.
// ok is false when the column is absent, not date-kind, or has no rows.
func (t *Table) DateRange(name string) (min, max time.Time, ok bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || t.Columns[idx].Kind != Date {
		return time.Time{}, time.Time{}, false
	}
	for _, row := range t.Rows {
		c := row[idx]
		if c.Kind != Date {
			continue
		}
		if !ok {
			min, max, ok = c.Date, c.Date, true
			continue
		}
		if c.Date.Before(min) {
			min = c.Date
		}
		if c.Date.After(max) {
			max = c.Date
		}
	}
	return min, max, ok
}

// Head returns up to n rows rendered as display strings.
func (t *Table) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		r := make([]string, len(row))
		for i, c := range row {
			r[i] = c.String()
		}
		out = append(out, r)
	}
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
