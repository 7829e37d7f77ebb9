package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record maps a field name to its typed value
type Record map[string]Value

// Get returns the value for a field, reporting whether the field was present
func (r Record) Get(field string) (Value, bool) {
	v, ok := r[field]
	return v, ok
}

// Table is a fully parsed CSV payload
type Table struct {
	Fields  []string
	Records []Record

	// RaggedRows counts records whose field count differed from the header
	RaggedRows int
}

// Len returns the number of data records
func (t *Table) Len() int {
	return len(t.Records)
}

// ErrNoHeader is returned when the payload has no header line
var ErrNoHeader = errors.New("csv payload has no header row")

// Parse reads a complete CSV document whose first line holds the field
// names. Empty lines are skipped, cells are typed with Infer and rows with
// too few or too many fields are kept.
func Parse(text string) (*Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Fields: uniqueFields(header)}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(table.Records)+1, err)
		}

		if len(row) != len(table.Fields) {
			table.RaggedRows++
		}

		record := make(Record, len(table.Fields))
		for i, field := range table.Fields {
			if i >= len(row) {
				break
			}
			record[field] = Infer(row[i])
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// uniqueFields renames repeated header names to name_1, name_2, ...
func uniqueFields(header []string) []string {
	fields := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			fields[i] = name + "_" + strconv.Itoa(n)
			continue
		}
		seen[name] = 1
		fields[i] = name
	}
	return fields
}
