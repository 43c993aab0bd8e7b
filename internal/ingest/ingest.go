// Package ingest converts uploaded CSV/JSON bytes into a validated tabular
// payload, or fails with a precise, user-facing reason.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// Payload is the validated result of ingesting one uploaded file. The caller
// assigns identity and a creation timestamp when persisting it.
type Payload struct {
	Name     string
	Rows     []map[string]any
	Columns  []string
	RowCount string
	FileSize string
}

// Ingest dispatches on the declared media type, falling back to the filename
// extension, and returns a validated (rows, columns) payload.
func Ingest(data []byte, mimeType, filename string) (*Payload, error) {
	var (
		rows    []map[string]any
		columns []string
		err     error
	)
	switch {
	case isCSV(mimeType, filename):
		rows, columns, err = parseCSV(data)
	case isJSON(mimeType, filename):
		rows, columns, err = parseJSON(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	p := &Payload{
		Name:     filename,
		Rows:     rows,
		Columns:  columns,
		RowCount: strconv.Itoa(len(rows)),
		FileSize: formatSize(len(data)),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func isCSV(mimeType, filename string) bool {
	return strings.HasPrefix(mimeType, "text/csv") ||
		strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func isJSON(mimeType, filename string) bool {
	return strings.HasPrefix(mimeType, "application/json") ||
		strings.HasSuffix(strings.ToLower(filename), ".json")
}

// formatSize renders a byte length in kibibytes with one decimal place.
func formatSize(n int) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

// hasValue reports whether at least one value in the row is usable: present,
// non-nil, and not an empty string. Zero numbers and false booleans count.
func hasValue(row map[string]any) bool {
	for _, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return true
	}
	return false
}

// validate re-checks the assembled payload against the dataset shape. The
// parse paths should already guarantee this; a mismatch here is a bug in the
// pipeline surfaced as a schema violation rather than a silent bad dataset.
func (p *Payload) validate() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrSchemaViolation)
	}
	if p.RowCount != strconv.Itoa(len(p.Rows)) {
		return fmt.Errorf("%w: row count mismatch", ErrSchemaViolation)
	}
	for i, row := range p.Rows {
		if row == nil {
			return fmt.Errorf("%w: row %d is null", ErrSchemaViolation, i)
		}
		if !hasValue(row) {
			return fmt.Errorf("%w: row %d has no values", ErrSchemaViolation, i)
		}
	}
	return nil
}
