package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCSVHeaderOrderAndRowFilter(t *testing.T) {
	// The all-empty middle row must be dropped; the others survive.
	p, err := Ingest([]byte("a,b\n1,2\n,\n3,4"), "text/csv", "data.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, p.Rows[0])
	assert.Equal(t, map[string]any{"a": "3", "b": "4"}, p.Rows[1])
	assert.Equal(t, "2", p.RowCount)
	assert.Equal(t, "data.csv", p.Name)
}

func TestIngestCSVHeadersOnly(t *testing.T) {
	_, err := Ingest([]byte("a,b,c\n"), "text/csv", "empty.csv")
	assert.ErrorIs(t, err, ErrEmptyOrHeaderless)
}

func TestIngestCSVEmptyBody(t *testing.T) {
	_, err := Ingest([]byte(""), "text/csv", "empty.csv")
	assert.ErrorIs(t, err, ErrEmptyOrHeaderless)
}

func TestIngestCSVAllRowsEmpty(t *testing.T) {
	_, err := Ingest([]byte("a,b\n,\n,"), "text/csv", "blank.csv")
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestIngestCSVRaggedRows(t *testing.T) {
	// Short rows only populate the columns they cover.
	p, err := Ingest([]byte("a,b,c\n1\n2,3"), "text/csv", "ragged.csv")
	require.NoError(t, err)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, map[string]any{"a": "1"}, p.Rows[0])
	assert.Equal(t, map[string]any{"a": "2", "b": "3"}, p.Rows[1])
}

func TestIngestCSVMalformed(t *testing.T) {
	_, err := Ingest([]byte("a,b\n\"unterminated,2"), "text/csv", "bad.csv")
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "CSV parsing failed")
}

func TestIngestJSONColumnsFromFirstElement(t *testing.T) {
	body := []byte(`[{"x":1,"y":"a"},{"x":2,"y":"b","z":true}]`)
	p, err := Ingest(body, "application/json", "data.json")
	require.NoError(t, err)

	// Column order follows the first object's document order; the second
	// element's extra key is not reflected.
	assert.Equal(t, []string{"x", "y"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, "2", p.RowCount)
	assert.Equal(t, true, p.Rows[1]["z"])
}

func TestIngestJSONKeyOrderPreserved(t *testing.T) {
	body := []byte(`[{"zulu":1,"alpha":2,"mike":3}]`)
	p, err := Ingest(body, "application/json", "order.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, p.Columns)
}

func TestIngestJSONWholeBatchRejection(t *testing.T) {
	// One all-null element fails the whole upload even though the first is
	// valid, unlike the CSV path's per-row filtering.
	_, err := Ingest([]byte(`[{"x":1},{"x":null,"y":null}]`), "application/json", "data.json")
	assert.ErrorIs(t, err, ErrInvalidRowShape)
}

func TestIngestJSONRejectsNonObjects(t *testing.T) {
	for _, body := range []string{
		`[{"x":1},null]`,
		`[{"x":1},[1,2]]`,
		`[{"x":1},"scalar"]`,
	} {
		_, err := Ingest([]byte(body), "application/json", "data.json")
		assert.ErrorIs(t, err, ErrInvalidRowShape, "body: %s", body)
	}
}

func TestIngestJSONNotAnArray(t *testing.T) {
	_, err := Ingest([]byte(`{"x":1}`), "application/json", "data.json")
	assert.ErrorIs(t, err, ErrNotAnArray)
}

func TestIngestJSONEmptyArray(t *testing.T) {
	_, err := Ingest([]byte(`[]`), "application/json", "data.json")
	assert.ErrorIs(t, err, ErrEmptyArray)
}

func TestIngestJSONNoColumns(t *testing.T) {
	// An empty first object has no usable value, so shape validation fires
	// before column extraction.
	_, err := Ingest([]byte(`[{}]`), "application/json", "data.json")
	assert.ErrorIs(t, err, ErrInvalidRowShape)
}

func TestIngestJSONMalformed(t *testing.T) {
	_, err := Ingest([]byte(`[{"x":1}`), "application/json", "data.json")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestIngestJSONZeroValuesCount(t *testing.T) {
	// Zero numbers and false booleans are defined values.
	p, err := Ingest([]byte(`[{"n":0,"b":false}]`), "application/json", "zeros.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "b"}, p.Columns)
}

func TestIngestDispatch(t *testing.T) {
	// Extension drives dispatch when the media type is unhelpful.
	_, err := Ingest([]byte("a\n1"), "application/octet-stream", "data.csv")
	assert.NoError(t, err)

	_, err = Ingest([]byte(`[{"a":1}]`), "", "data.json")
	assert.NoError(t, err)

	_, err = Ingest([]byte("hello"), "text/plain", "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngestFileSizeLabel(t *testing.T) {
	body := []byte("a,b\n1,2")
	p, err := Ingest(body, "text/csv", "tiny.csv")
	require.NoError(t, err)
	assert.Equal(t, "0.0 KB", p.FileSize)
}
