package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================
//
//   NotFound        - the input path is not an existing regular file
//   SchemaError     - canonical columns are missing from the header
//   ValidationError - one or more rows failed a stage; carries every row error
//
// NotFound and SchemaError stop the pipeline immediately. Row-level problems
// are collected for the whole batch and reported once.
//
// =============================================================================

// MaxReportedRows is how many row errors a ValidationError lists in its
// message before it is truncated with an ellipsis line.
const MaxReportedRows = 10

// ErrNotFound is matched with errors.Is for a missing input file.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an input path that does not reference a regular file.
type NotFoundError struct {
	Path string

	// Source names the input kind in the message. Default: "CSV".
	Source string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s file not found: %s", sourceName(e.Source), e.Path)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SchemaError lists canonical columns that are absent from the header row.
type SchemaError struct {
	// Missing holds the absent names in canonical order.
	Missing []string

	// Source names the input kind in the message. Default: "CSV".
	Source string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s missing columns: %s", sourceName(e.Source), strings.Join(e.Missing, ", "))
}

func sourceName(s string) string {
	if s == "" {
		return "CSV"
	}
	return s
}

// MissingColumns returns the canonical columns not present in header, in
// canonical order. An empty result means the header is complete.
func MissingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range Columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// =============================================================================
// ROW ERRORS
// =============================================================================

// RowError is a single per-row defect found by the validator or the ETA
// parser. Row is 1-indexed within the stage's input.
type RowError struct {
	Row     int
	Field   string
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Quote renders a raw cell value for error messages as a quoted literal,
// e.g. 'abc'. Values containing ' but no " are double-quoted ("it's");
// otherwise ' is escaped inside single quotes. Non-printable characters are
// escaped.
func Quote(s string) string {
	q := strconv.Quote(s)
	q = q[1 : len(q)-1]
	q = strings.ReplaceAll(q, `\"`, `"`)

	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + q + `"`
	}

	q = strings.ReplaceAll(q, `'`, `\'`)
	return "'" + q + "'"
}

// ValidationError is the batch-level failure of a stage. It always carries
// every row error that was collected; only the message is truncated.
type ValidationError struct {
	// Stage names the failing stage, e.g. "Validation" or "ETA conversion".
	Stage string

	// Rows holds every row error, in row order.
	Rows []RowError
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, MaxReportedRows+2)
	lines = append(lines, e.Stage+" failed:")

	for i, r := range e.Rows {
		if i == MaxReportedRows {
			break
		}
		lines = append(lines, r.Error())
	}
	if e.Truncated() {
		lines = append(lines, "...")
	}

	return strings.Join(lines, "\n")
}

// Truncated reports whether the message omits some row errors.
func (e *ValidationError) Truncated() bool {
	return len(e.Rows) > MaxReportedRows
}

// =============================================================================
// BATCH OUTCOME
// =============================================================================

// Batch accumulates per-row outcomes of a stage: every row either adds an
// item or a row error. The stage result is decided once all rows are seen.
type Batch[T any] struct {
	Items  []T
	Errors []RowError
}

// Add records a successful row.
func (b *Batch[T]) Add(item T) {
	b.Items = append(b.Items, item)
}

// Fail records a failed row.
func (b *Batch[T]) Fail(row int, field, format string, args ...any) {
	b.Errors = append(b.Errors, RowError{
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Result returns the items if no row failed. Otherwise the items are
// discarded and a *ValidationError for stage is returned.
func (b *Batch[T]) Result(stage string) ([]T, error) {
	if len(b.Errors) > 0 {
		return nil, &ValidationError{Stage: stage, Rows: b.Errors}
	}
	if b.Items == nil {
		return []T{}, nil
	}
	return b.Items, nil
}
