package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	var err error = &NotFoundError{Path: "missing.csv"}

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("load: %w", err), ErrNotFound))
	assert.Equal(t, "CSV file not found: missing.csv", err.Error())
}

func TestMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "complete header in another order",
			header: []string{"eta", "rake_id", "cargo", "current_cost", "destination", "wagon_count", "loading_point"},
			want:   nil,
		},
		{
			name:   "extra columns are ignored",
			header: append([]string{"notes"}, Columns...),
			want:   nil,
		},
		{
			name:   "missing two",
			header: []string{"rake_id", "cargo", "loading_point", "wagon_count", "eta"},
			want:   []string{"destination", "current_cost"},
		},
		{
			name:   "case sensitive",
			header: []string{"RAKE_ID", "cargo", "loading_point", "destination", "wagon_count", "eta", "current_cost"},
			want:   []string{"rake_id"},
		},
		{
			name:   "empty header",
			header: nil,
			want:   Columns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingColumns(tt.header))
		})
	}
}

func TestSchemaError_Message(t *testing.T) {
	err := &SchemaError{Missing: []string{"destination", "eta"}}
	assert.Equal(t, "CSV missing columns: destination, eta", err.Error())
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "'abc'"},
		{"", "''"},
		{"1.2.3", "'1.2.3'"},
		{`say "hi"`, `'say "hi"'`},
		{"it's", `"it's"`},
		{"'", `"'"`},
		{`it's "x"`, `'it\'s "x"'`},
		{"tab\there", `'tab\there'`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in), "input %q", tt.in)
	}
}

func TestValidationError_CapsMessage(t *testing.T) {
	var b Batch[int]
	for i := 1; i <= 12; i++ {
		b.Fail(i, ColWagonCount, "wagon_count must be >= 0")
	}

	items, err := b.Result("Validation")
	require.Error(t, err)
	assert.Nil(t, items)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Rows, 12)
	assert.True(t, verr.Truncated())

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 12) // header + 10 rows + ellipsis
	assert.Equal(t, "Validation failed:", lines[0])
	assert.Equal(t, "row 1: wagon_count must be >= 0", lines[1])
	assert.Equal(t, "row 10: wagon_count must be >= 0", lines[10])
	assert.Equal(t, "...", lines[11])
}

func TestValidationError_ExactlyTenNotTruncated(t *testing.T) {
	var b Batch[int]
	for i := 1; i <= 10; i++ {
		b.Fail(i, ColETA, "could not parse eta -> %s", Quote("x"))
	}

	_, err := b.Result("ETA conversion")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "...")
	assert.Len(t, strings.Split(err.Error(), "\n"), 11)
}

func TestBatch_ResultWithoutErrors(t *testing.T) {
	var b Batch[string]
	items, err := b.Result("Validation")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	b.Add("a")
	b.Add("b")
	items, err = b.Result("Validation")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestNewShipment(t *testing.T) {
	eta := time.Date(2025, 10, 13, 5, 42, 59, 0, time.UTC)
	valid := ValidatedRecord{
		RakeID:       " RAKE-1 ",
		Cargo:        " Wire Rods",
		LoadingPoint: "Bokaro",
		Destination:  "Mumbai ",
		WagonCount:   5,
		ETA:          "2025-10-13T05:42:59Z",
		CurrentCost:  225000,
	}

	s, err := NewShipment(valid, eta)
	require.NoError(t, err)
	assert.Equal(t, Shipment{
		RakeID:       "RAKE-1",
		Cargo:        "Wire Rods",
		LoadingPoint: "Bokaro",
		Destination:  "Mumbai",
		WagonCount:   5,
		ETA:          eta,
		CurrentCost:  225000,
	}, s)

	tests := []struct {
		name   string
		mutate func(*ValidatedRecord)
		eta    time.Time
		want   error
	}{
		{"blank rake id", func(r *ValidatedRecord) { r.RakeID = "  " }, eta, ErrMissingRakeID},
		{"blank origin", func(r *ValidatedRecord) { r.LoadingPoint = "" }, eta, ErrMissingLoadingPoint},
		{"blank destination", func(r *ValidatedRecord) { r.Destination = "" }, eta, ErrMissingDestination},
		{"negative wagons", func(r *ValidatedRecord) { r.WagonCount = -1 }, eta, ErrNegativeWagonCount},
		{"negative cost", func(r *ValidatedRecord) { r.CurrentCost = -0.5 }, eta, ErrNegativeCost},
		{"zero eta", func(r *ValidatedRecord) {}, time.Time{}, ErrZeroETA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			_, err := NewShipment(rec, tt.eta)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizedRecord_Get(t *testing.T) {
	rec := NormalizedRecord{
		RakeID: "R", Cargo: "C", LoadingPoint: "L", Destination: "D",
		WagonCount: "1", ETA: "E", CurrentCost: "2",
	}

	got := make([]string, 0, len(Columns))
	for _, col := range Columns {
		got = append(got, rec.Get(col))
	}
	assert.Equal(t, []string{"R", "C", "L", "D", "1", "E", "2"}, got)
	assert.Equal(t, "", rec.Get("unknown"))
}
