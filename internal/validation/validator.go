// =============================================================================
// rakeprep - Validation Engine
// =============================================================================
//
// This module is the Validator stage. It coerces the numeric columns of each
// normalized record into typed values and enforces their ranges.
//
// VALIDATION STRATEGY:
//   - Every row is inspected; a row stops at its first defect
//   - Errors are collected, not returned immediately
//   - If any row failed, the whole batch fails with one *types.ValidationError
//     and no records are returned
//
// FIELD RULES:
//   wagon_count   : integer, comma thousands-separators allowed, >= 0
//   current_cost  : decimal, comma thousands-separators allowed, >= 0;
//                   empty means 0
//   rake_id, loading_point, destination : non-empty
//
// =============================================================================

package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/railops/rakeprep/internal/types"
)

// Stage is the stage name used in the batch error message.
const Stage = "Validation"

// presenceColumns are re-checked after the numeric fields.
var presenceColumns = []string{
	types.ColRakeID,
	types.ColLoadingPoint,
	types.ColDestination,
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// Validate converts normalized records into validated records.
//
// PARAMETERS:
//   - rows: The cleaned records, in order. Row numbers in error messages are
//     1-indexed positions in this slice.
//
// RETURNS:
//   - The validated records in input order, if every row is valid.
//   - *types.ValidationError listing every row defect otherwise.
func Validate(rows []types.NormalizedRecord) ([]types.ValidatedRecord, error) {
	var batch types.Batch[types.ValidatedRecord]

	for i, row := range rows {
		validateRow(&batch, i+1, row)
	}

	return batch.Result(Stage)
}

// validateRow checks one record and adds either the typed record or a single
// row error to batch.
func validateRow(batch *types.Batch[types.ValidatedRecord], n int, row types.NormalizedRecord) {
	wagons, ok := parseInteger(row.WagonCount)
	if !ok {
		batch.Fail(n, types.ColWagonCount, "wagon_count is not an integer -> %s", types.Quote(row.WagonCount))
		return
	}
	if wagons < 0 {
		batch.Fail(n, types.ColWagonCount, "wagon_count must be >= 0")
		return
	}

	cost := 0.0
	if strings.TrimSpace(row.CurrentCost) != "" {
		cost, ok = parseDecimal(row.CurrentCost)
		if !ok {
			batch.Fail(n, types.ColCurrentCost, "current_cost is not a number -> %s", types.Quote(row.CurrentCost))
			return
		}
	}
	if cost < 0 {
		batch.Fail(n, types.ColCurrentCost, "current_cost must be >= 0")
		return
	}

	for _, col := range presenceColumns {
		if strings.TrimSpace(row.Get(col)) == "" {
			batch.Fail(n, col, "%s is required", col)
			return
		}
	}

	batch.Add(types.ValidatedRecord{
		RakeID:       row.RakeID,
		Cargo:        row.Cargo,
		LoadingPoint: row.LoadingPoint,
		Destination:  row.Destination,
		WagonCount:   wagons,
		ETA:          row.ETA,
		CurrentCost:  cost,
	})
}

// =============================================================================
// NUMBER PARSING
// =============================================================================

// parseInteger parses a base-10 integer, ignoring comma thousands-separators
// and surrounding whitespace.
func parseInteger(value string) (int, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDecimal parses a finite decimal number, ignoring comma
// thousands-separators and surrounding whitespace.
func parseDecimal(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	// NaN would slip past the range check.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
