package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Table is a materialized CSV table. The first row is the header.
// Cells stay strings; callers opt into numeric coercion themselves.
type Table struct {
	header  []string
	index   map[string]int
	records [][]string
}

// LoadTable reads a CSV file into a Table.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable reads CSV content into a Table. The input must have a
// header row; records must match its width.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV input has no header row")
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate CSV column %q", name)
		}
		index[name] = i
	}

	return &Table{header: header, index: index, records: rows[1:]}, nil
}

// Columns returns the header names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of data records.
func (t *Table) Len() int {
	return len(t.records)
}

// Column returns one column as a group of elements, in record order.
func (t *Table) Column(name string) ([]any, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no such column %q (have %v)", name, t.header)
	}
	out := make([]any, len(t.records))
	for r, record := range t.records {
		out[r] = record[i]
	}
	return out, nil
}

// Records returns every row as a column-to-cell mapping, in record
// order.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.records))
	for r, record := range t.records {
		row := make(map[string]any, len(t.header))
		for i, name := range t.header {
			row[name] = record[i]
		}
		out[r] = row
	}
	return out
}

// Mapping returns a key-column to value-column mapping. Duplicate keys
// are an error: the engine's mapping comparison has no way to represent
// them.
func (t *Table) Mapping(keyColumn, valueColumn string) (map[string]any, error) {
	ki, ok := t.index[keyColumn]
	if !ok {
		return nil, fmt.Errorf("no such column %q (have %v)", keyColumn, t.header)
	}
	vi, ok := t.index[valueColumn]
	if !ok {
		return nil, fmt.Errorf("no such column %q (have %v)", valueColumn, t.header)
	}
	out := make(map[string]any, len(t.records))
	for _, record := range t.records {
		key := record[ki]
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q in column %q", key, keyColumn)
		}
		out[key] = record[vi]
	}
	return out, nil
}
