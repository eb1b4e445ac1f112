// =============================================================================
// rakeprep - Shared Types
// =============================================================================
//
// This package contains the record types that flow between the pipeline
// stages, and the error taxonomy every stage reports with. Keeping them here
// avoids import cycles between:
//   - csvparser / xlsxparser (produce RawRecord)
//   - cleaner               (RawRecord -> NormalizedRecord)
//   - validation            (NormalizedRecord -> ValidatedRecord)
//   - temporal              (ValidatedRecord -> Shipment)
//
// Each stage has its own record type. A value only ever moves forward, and
// the fields a stage guarantees are checked by the compiler rather than by
// map lookups.
//
// =============================================================================

package types

import (
	"errors"
	"strings"
	"time"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Canonical column names. Header matching is case-sensitive.
const (
	ColRakeID       = "rake_id"
	ColCargo        = "cargo"
	ColLoadingPoint = "loading_point"
	ColDestination  = "destination"
	ColWagonCount   = "wagon_count"
	ColETA          = "eta"
	ColCurrentCost  = "current_cost"
)

// Columns is the canonical column set, in the order used for error messages
// and exports.
var Columns = []string{
	ColRakeID,
	ColCargo,
	ColLoadingPoint,
	ColDestination,
	ColWagonCount,
	ColETA,
	ColCurrentCost,
}

// RequiredColumns must be non-empty after trimming for a row to survive
// cleaning.
var RequiredColumns = []string{
	ColRakeID,
	ColLoadingPoint,
	ColDestination,
	ColWagonCount,
	ColETA,
}

// =============================================================================
// STAGE RECORDS
// =============================================================================

// RawRecord is one data row exactly as decoded from the input file.
type RawRecord struct {
	RakeID       string
	Cargo        string
	LoadingPoint string
	Destination  string
	WagonCount   string
	ETA          string
	CurrentCost  string

	// Line is the 1-indexed source line (or sheet row) of the record.
	// It is only used for diagnostics.
	Line int
}

// RawRecordFromMap builds a RawRecord from a header-keyed row. Columns that
// are absent from the map become empty strings.
func RawRecordFromMap(row map[string]string, line int) RawRecord {
	return RawRecord{
		RakeID:       row[ColRakeID],
		Cargo:        row[ColCargo],
		LoadingPoint: row[ColLoadingPoint],
		Destination:  row[ColDestination],
		WagonCount:   row[ColWagonCount],
		ETA:          row[ColETA],
		CurrentCost:  row[ColCurrentCost],
		Line:         line,
	}
}

// NormalizedRecord is a RawRecord with every value trimmed.
//
// The struct holds only the seven canonical strings so it is comparable;
// the cleaner uses the value itself as its deduplication key.
type NormalizedRecord struct {
	RakeID       string
	Cargo        string
	LoadingPoint string
	Destination  string
	WagonCount   string
	ETA          string
	CurrentCost  string
}

// Get returns the value of a canonical column, or "" for unknown names.
func (r NormalizedRecord) Get(column string) string {
	switch column {
	case ColRakeID:
		return r.RakeID
	case ColCargo:
		return r.Cargo
	case ColLoadingPoint:
		return r.LoadingPoint
	case ColDestination:
		return r.Destination
	case ColWagonCount:
		return r.WagonCount
	case ColETA:
		return r.ETA
	case ColCurrentCost:
		return r.CurrentCost
	}
	return ""
}

// ValidatedRecord carries the two numeric columns in typed form. All other
// columns are unchanged strings.
type ValidatedRecord struct {
	RakeID       string
	Cargo        string
	LoadingPoint string
	Destination  string
	WagonCount   int
	ETA          string
	CurrentCost  float64
}

// =============================================================================
// SHIPMENT
// =============================================================================

// Shipment is the terminal entity of the pipeline: one rake movement with
// typed fields. Values are never mutated after construction.
type Shipment struct {
	RakeID       string
	Cargo        string
	LoadingPoint string
	Destination  string
	WagonCount   int
	ETA          time.Time
	CurrentCost  float64
}

// Construction errors returned by NewShipment.
var (
	ErrMissingRakeID       = errors.New("rake_id is empty")
	ErrMissingLoadingPoint = errors.New("loading_point is empty")
	ErrMissingDestination  = errors.New("destination is empty")
	ErrNegativeWagonCount  = errors.New("wagon_count is negative")
	ErrNegativeCost        = errors.New("current_cost is negative")
	ErrZeroETA             = errors.New("eta is the zero time")
)

// NewShipment assembles a Shipment from a validated record and its parsed
// ETA. String fields are trimmed again and every invariant is re-checked.
func NewShipment(rec ValidatedRecord, eta time.Time) (Shipment, error) {
	s := Shipment{
		RakeID:       strings.TrimSpace(rec.RakeID),
		Cargo:        strings.TrimSpace(rec.Cargo),
		LoadingPoint: strings.TrimSpace(rec.LoadingPoint),
		Destination:  strings.TrimSpace(rec.Destination),
		WagonCount:   rec.WagonCount,
		ETA:          eta,
		CurrentCost:  rec.CurrentCost,
	}

	switch {
	case s.RakeID == "":
		return Shipment{}, ErrMissingRakeID
	case s.LoadingPoint == "":
		return Shipment{}, ErrMissingLoadingPoint
	case s.Destination == "":
		return Shipment{}, ErrMissingDestination
	case s.WagonCount < 0:
		return Shipment{}, ErrNegativeWagonCount
	case s.CurrentCost < 0:
		return Shipment{}, ErrNegativeCost
	case s.ETA.IsZero():
		return Shipment{}, ErrZeroETA
	}

	return s, nil
}
