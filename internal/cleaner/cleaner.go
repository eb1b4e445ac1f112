// =============================================================================
// rakeprep - Cleaning Engine
// =============================================================================
//
// This module is the Cleaner stage. It normalizes raw rows and filters out
// the ones that cannot take part in planning.
//
// RULES (applied to every row, in file order):
//   1. Trim leading/trailing whitespace from every canonical value
//   2. Drop the row if any required column is empty after trimming
//   3. Drop the row if an earlier row produced the identical seven values
//
// Dropped rows are not errors. Cleaning never fails.
//
// =============================================================================

package cleaner

import (
	"strings"

	"github.com/railops/rakeprep/internal/types"
)

// Stats counts what the cleaner did with its input.
type Stats struct {
	Input           int
	MissingRequired int
	Duplicates      int
	Output          int
}

// Dropped returns the number of rows removed.
func (s Stats) Dropped() int {
	return s.MissingRequired + s.Duplicates
}

// Clean normalizes rows and removes incomplete and duplicate records.
//
// PARAMETERS:
//   - rows: The raw records, in file order.
//
// RETURNS:
//   - The surviving records in order of first occurrence. Never nil.
func Clean(rows []types.RawRecord) []types.NormalizedRecord {
	out, _ := CleanWithStats(rows)
	return out
}

// CleanWithStats is Clean plus row counts for logging and reporting.
func CleanWithStats(rows []types.RawRecord) ([]types.NormalizedRecord, Stats) {
	stats := Stats{Input: len(rows)}
	out := make([]types.NormalizedRecord, 0, len(rows))
	seen := make(map[types.NormalizedRecord]struct{}, len(rows))

	for _, row := range rows {
		rec := Normalize(row)

		if !HasRequired(rec) {
			stats.MissingRequired++
			continue
		}

		if _, dup := seen[rec]; dup {
			stats.Duplicates++
			continue
		}
		seen[rec] = struct{}{}

		out = append(out, rec)
	}

	stats.Output = len(out)
	return out, stats
}

// Normalize trims every canonical value of a raw record.
func Normalize(row types.RawRecord) types.NormalizedRecord {
	return types.NormalizedRecord{
		RakeID:       strings.TrimSpace(row.RakeID),
		Cargo:        strings.TrimSpace(row.Cargo),
		LoadingPoint: strings.TrimSpace(row.LoadingPoint),
		Destination:  strings.TrimSpace(row.Destination),
		WagonCount:   strings.TrimSpace(row.WagonCount),
		ETA:          strings.TrimSpace(row.ETA),
		CurrentCost:  strings.TrimSpace(row.CurrentCost),
	}
}

// HasRequired reports whether every required column of rec is non-empty.
func HasRequired(rec types.NormalizedRecord) bool {
	for _, col := range types.RequiredColumns {
		if rec.Get(col) == "" {
			return false
		}
	}
	return true
}
