package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parseCSV reads delimited text with the first row as the header. Empty lines
// are skipped by the reader. Rows where every declared column is empty are
// filtered out rather than failing the upload; ragged CSVs produce sparse
// rows naturally, so the policy here is permissive per row.
func parseCSV(data []byte) ([]map[string]any, []string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyOrHeaderless
		}
		return nil, nil, fmt.Errorf("%w: CSV parsing failed: %s", ErrMalformedInput, parseErrMsg(err))
	}
	columns := make([]string, len(header))
	copy(columns, header)

	var (
		parsed    []map[string]any
		parseErrs []string
	)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// Collect and keep reading; the reader resumes at the next line.
			parseErrs = append(parseErrs, parseErrMsg(err))
			continue
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		parsed = append(parsed, row)
	}
	if len(parseErrs) > 0 {
		return nil, nil, fmt.Errorf("%w: CSV parsing failed: %s", ErrMalformedInput, strings.Join(parseErrs, ", "))
	}
	if len(columns) == 0 || len(parsed) == 0 {
		return nil, nil, ErrEmptyOrHeaderless
	}

	rows := parsed[:0]
	for _, row := range parsed {
		if hasValue(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoValidRows
	}
	return rows, columns, nil
}

func parseErrMsg(err error) string {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("line %d: %v", pe.Line, pe.Err)
	}
	return err.Error()
}
