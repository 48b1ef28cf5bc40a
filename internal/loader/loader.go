package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kbellanger/salescope/internal/table"
)

// LoadError reports a file that could not be parsed as its declared format.
// No partial table is ever returned alongside one.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load parses an uploaded file into a table. The format is selected by the
// declared filename: .csv/.tsv go through the CSV reader, everything else is
// treated as a spreadsheet workbook.
func Load(r io.Reader, filename string) (*table.Table, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv") {
		return loadCSV(r, filename)
	}
	return loadXLSX(r, filename)
}

// LoadFile is Load for an on-disk path.
func LoadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Name: filepath.Base(path), Err: err}
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

func loadCSV(r io.Reader, name string) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = sniffDelimiter(name)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Name: name, Err: errors.New("empty file")}
		}
		return nil, &LoadError{Name: name, Err: fmt.Errorf("read header: %w", err)}
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{Name: name, Err: fmt.Errorf("read row %d: %w", len(records)+1, err)}
		}
		row := make([]string, len(rec))
		copy(row, rec)
		records = append(records, row)
	}
	return buildTable(header, records), nil
}

func loadXLSX(r io.Reader, name string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Name: name, Err: errors.New("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Name: name, Err: fmt.Errorf("read sheet %s: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Name: name, Err: errors.New("empty sheet")}
	}
	return buildTable(rows[0], rows[1:]), nil
}

// sniffDelimiter picks a CSV delimiter from the filename, the same way the
// analyzer avoids reading the file twice: .tsv means tab, otherwise comma.
func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// buildTable assembles the raw record table and infers declared column kinds.
// A column is numeric when every present value parses as a number; anything
// else stays text. Dates are left for the cleaner, which owns coercion.
func buildTable(header []string, records [][]string) *table.Table {
	ncol := len(header)
	cols := make([]table.Column, ncol)
	for i, h := range header {
		cols[i] = table.Column{Name: strings.TrimSpace(h), Kind: table.Text}
	}

	numeric := make([]bool, ncol)
	present := make([]int, ncol)
	for i := range numeric {
		numeric[i] = true
	}
	for _, rec := range records {
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			if v == "" {
				continue
			}
			present[j]++
			if _, ok := parseNumber(v); !ok {
				numeric[j] = false
			}
		}
	}
	for j := range cols {
		if numeric[j] && present[j] > 0 {
			cols[j].Kind = table.Number
		}
	}

	rows := make([][]table.Cell, 0, len(records))
	for _, rec := range records {
		row := make([]table.Cell, ncol)
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			switch {
			case v == "":
				row[j] = table.MissingCell()
			case cols[j].Kind == table.Number:
				n, _ := parseNumber(v)
				row[j] = table.NumberCell(n)
			default:
				row[j] = table.TextCell(v)
			}
		}
		rows = append(rows, row)
	}
	return &table.Table{Columns: cols, Rows: rows}
}
