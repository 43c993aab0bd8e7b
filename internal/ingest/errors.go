package ingest

import "errors"

// Ingestion failures are sentinel errors so handlers can map them to HTTP
// statuses with errors.Is while still carrying a specific reason string
// via wrapping.
var (
	// ErrUnsupportedFormat indicates the upload is neither CSV nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported file type, please upload CSV or JSON")

	// ErrMalformedInput indicates the bytes could not be parsed at all.
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmptyOrHeaderless indicates a CSV with no header fields or no data rows.
	ErrEmptyOrHeaderless = errors.New("CSV file is empty or has no valid headers")

	// ErrNoValidRows indicates every CSV data row was empty across all columns.
	ErrNoValidRows = errors.New("CSV contains no valid data rows")

	// ErrNotAnArray indicates the JSON document's top level is not an array.
	ErrNotAnArray = errors.New("JSON must be an array of objects")

	// ErrEmptyArray indicates a JSON document holding a zero-length array.
	ErrEmptyArray = errors.New("JSON array is empty")

	// ErrInvalidRowShape indicates at least one JSON element is not a non-null,
	// non-array object with a usable value. One bad element fails the whole
	// upload; JSON arrays are rejected as a batch, unlike the CSV row filter.
	ErrInvalidRowShape = errors.New("JSON array must contain only objects with at least one defined value")

	// ErrNoColumns indicates the first JSON object has no properties.
	ErrNoColumns = errors.New("JSON objects have no properties")

	// ErrSchemaViolation indicates the assembled payload failed structural validation.
	ErrSchemaViolation = errors.New("invalid dataset format")
)

// IsUserError reports whether err is one of the ingestion failures caused by
// the uploaded content itself, as opposed to an internal fault. Handlers map
// these to 400 responses.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedFormat,
		ErrMalformedInput,
		ErrEmptyOrHeaderless,
		ErrNoValidRows,
		ErrNotAnArray,
		ErrEmptyArray,
		ErrInvalidRowShape,
		ErrNoColumns,
		ErrSchemaViolation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
