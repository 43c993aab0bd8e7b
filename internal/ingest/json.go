package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// parseJSON reads a JSON document whose top level must be a non-empty array
// of objects. Unlike the CSV path, one invalid element rejects the whole
// batch: a JSON array is assumed deliberately constructed, so a bad element
// is a caller mistake rather than ragged data.
func parseJSON(data []byte) ([]map[string]any, []string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid JSON format", ErrMalformedInput)
	}
	arr, ok := doc.([]any)
	if !ok {
		return nil, nil, ErrNotAnArray
	}
	if len(arr) == 0 {
		return nil, nil, ErrEmptyArray
	}

	rows := make([]map[string]any, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok || obj == nil || !hasValue(obj) {
			return nil, nil, ErrInvalidRowShape
		}
		rows[i] = obj
	}

	// Columns come from the first element only; later elements may carry
	// extra keys that are intentionally not reflected in the column set.
	columns, err := firstObjectKeys(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid JSON format", ErrMalformedInput)
	}
	if len(columns) == 0 {
		return nil, nil, ErrNoColumns
	}
	return rows, columns, nil
}

// firstObjectKeys returns the keys of the first array element in document
// order. Go maps do not preserve key order, so the order is recovered by
// walking the token stream directly.
func firstObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening '['
		return nil, err
	}
	if _, err := dec.Token(); err != nil { // first element's '{'
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
