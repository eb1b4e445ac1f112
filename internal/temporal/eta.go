// =============================================================================
// rakeprep - Temporal Parser
// =============================================================================
//
// This module is the last pipeline stage. It parses the free-form ETA column
// into a time.Time and assembles the final Shipment values.
//
// FORMAT PRECEDENCE:
//   1. ExtendedLayouts - ISO 8601 date/time, optional fraction and offset.
//      A trailing "Z" is read as "+00:00".
//   2. FallbackLayouts - operator formats, tried strictly in order.
//
// The first layout that parses wins. Values without an offset are UTC.
//
// =============================================================================

package temporal

import (
	"strings"
	"time"

	"github.com/railops/rakeprep/internal/types"
)

// Stage is the stage name used in the batch error message.
const Stage = "ETA conversion"

// Layout is one accepted ETA format.
type Layout struct {
	// Name is the human-readable pattern, e.g. "DD/MM/YYYY HH:MM".
	Name string

	// Layout is the Go reference-time layout.
	Layout string
}

// parse parses value with the layout. Meridiem markers are matched
// case-insensitively.
func (l Layout) parse(value string) (time.Time, error) {
	if strings.Contains(l.Layout, "PM") {
		value = strings.ToUpper(value)
	}
	return time.Parse(l.Layout, value)
}

// =============================================================================
// LAYOUT TABLES
// =============================================================================

// ExtendedLayouts are the ISO 8601 forms, tried first. Fractional seconds are
// accepted after the seconds field by time.Parse. Offsets may be written
// ±HH:MM, ±HHMM or ±HH.
var ExtendedLayouts = []Layout{
	{Name: "YYYY-MM-DDTHH:MM:SS±HH:MM", Layout: "2006-01-02T15:04:05Z07:00"},
	{Name: "YYYY-MM-DDTHH:MM:SS±HHMM", Layout: "2006-01-02T15:04:05-0700"},
	{Name: "YYYY-MM-DDTHH:MM:SS±HH", Layout: "2006-01-02T15:04:05-07"},
	{Name: "YYYY-MM-DDTHH:MM:SS", Layout: "2006-01-02T15:04:05"},
	{Name: "YYYY-MM-DD HH:MM:SS±HH:MM", Layout: "2006-01-02 15:04:05Z07:00"},
	{Name: "YYYY-MM-DD HH:MM:SS±HHMM", Layout: "2006-01-02 15:04:05-0700"},
	{Name: "YYYY-MM-DD HH:MM:SS±HH", Layout: "2006-01-02 15:04:05-07"},
	{Name: "YYYY-MM-DD HH:MM:SS (ISO)", Layout: "2006-01-02 15:04:05"},
	{Name: "YYYY-MM-DDTHH:MM±HH:MM", Layout: "2006-01-02T15:04Z07:00"},
	{Name: "YYYY-MM-DDTHH:MM±HHMM", Layout: "2006-01-02T15:04-0700"},
	{Name: "YYYY-MM-DDTHH:MM±HH", Layout: "2006-01-02T15:04-07"},
	{Name: "YYYY-MM-DDTHH:MM", Layout: "2006-01-02T15:04"},
	{Name: "YYYY-MM-DD HH:MM±HH:MM", Layout: "2006-01-02 15:04Z07:00"},
	{Name: "YYYY-MM-DD HH:MM±HHMM", Layout: "2006-01-02 15:04-0700"},
	{Name: "YYYY-MM-DD HH:MM±HH", Layout: "2006-01-02 15:04-07"},
	{Name: "YYYY-MM-DD HH:MM (ISO)", Layout: "2006-01-02 15:04"},
	{Name: "YYYY-MM-DDTHH±HH:MM", Layout: "2006-01-02T15Z07:00"},
	{Name: "YYYY-MM-DDTHH", Layout: "2006-01-02T15"},
	{Name: "YYYY-MM-DD HH±HH:MM", Layout: "2006-01-02 15Z07:00"},
	{Name: "YYYY-MM-DD HH", Layout: "2006-01-02 15"},
	{Name: "YYYY-MM-DD", Layout: "2006-01-02"},
}

// FallbackLayouts are tried in order when no extended layout matches.
// Numeric fields accept one or two digits.
var FallbackLayouts = []Layout{
	{Name: "YYYY-MM-DD HH:MM:SS", Layout: "2006-1-2 15:4:5"},
	{Name: "YYYY-MM-DD HH:MM", Layout: "2006-1-2 15:4"},
	{Name: "DD-MM-YYYY HH:MM:SS", Layout: "2-1-2006 15:4:5"},
	{Name: "DD-MM-YYYY HH:MM", Layout: "2-1-2006 15:4"},
	{Name: "DD/MM/YYYY HH:MM:SS", Layout: "2/1/2006 15:4:5"},
	{Name: "DD/MM/YYYY HH:MM", Layout: "2/1/2006 15:4"},
	{Name: "MM/DD/YYYY hh:mm:ss AM/PM", Layout: "1/2/2006 3:4:5 PM"},
	{Name: "MM/DD/YYYY hh:mm AM/PM", Layout: "1/2/2006 3:4 PM"},
}

// =============================================================================
// PARSING FUNCTIONS
// =============================================================================

// Match parses an ETA value and reports which layout accepted it.
//
// PARAMETERS:
//   - value: The trimmed ETA string.
//
// RETURNS:
//   - The parsed time and the winning layout.
//   - false if value is empty or no layout matches.
func Match(value string) (time.Time, Layout, bool) {
	if value == "" {
		return time.Time{}, Layout{}, false
	}

	iso := value
	if strings.HasSuffix(iso, "Z") {
		iso = strings.TrimSuffix(iso, "Z") + "+00:00"
	}
	for _, l := range ExtendedLayouts {
		if t, err := l.parse(iso); err == nil {
			return t, l, true
		}
	}

	for _, l := range FallbackLayouts {
		if t, err := l.parse(value); err == nil {
			return t, l, true
		}
	}

	return time.Time{}, Layout{}, false
}

// ParseETA parses an ETA value. See Match.
func ParseETA(value string) (time.Time, bool) {
	t, _, ok := Match(value)
	return t, ok
}

// =============================================================================
// SHIPMENT ASSEMBLY
// =============================================================================

// Convert parses the ETA of every validated record and builds the shipments.
//
// PARAMETERS:
//   - rows: The validated records, in order. Row numbers in error messages
//     are 1-indexed positions in this slice.
//
// RETURNS:
//   - The shipments in input order, if every row converted.
//   - *types.ValidationError listing every failed row otherwise.
func Convert(rows []types.ValidatedRecord) ([]types.Shipment, error) {
	var batch types.Batch[types.Shipment]

	for i, row := range rows {
		n := i + 1
		raw := strings.TrimSpace(row.ETA)

		eta, ok := ParseETA(raw)
		if !ok {
			batch.Fail(n, types.ColETA, "could not parse eta -> %s", types.Quote(raw))
			continue
		}

		shipment, err := types.NewShipment(row, eta)
		if err != nil {
			batch.Fail(n, "", "error constructing Shipment -> %v", err)
			continue
		}

		batch.Add(shipment)
	}

	return batch.Result(Stage)
}
