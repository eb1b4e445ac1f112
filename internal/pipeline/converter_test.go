package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/railops/rakeprep/internal/cleaner"
	"github.com/railops/rakeprep/internal/config"
	"github.com/railops/rakeprep/internal/export"
	"github.com/railops/rakeprep/internal/logging"
	"github.com/railops/rakeprep/internal/types"
)

const samplePath = "testdata/shipments.csv"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPreprocess_Sample(t *testing.T) {
	shipments, err := Preprocess(samplePath)
	require.NoError(t, err)
	require.Len(t, shipments, 4)

	assert.Equal(t, "RAKE-1", shipments[0].RakeID)
	assert.Equal(t, 5, shipments[0].WagonCount)

	ids := []string{}
	for _, s := range shipments {
		ids = append(ids, s.RakeID)
		assert.GreaterOrEqual(t, s.ETA.Year(), 2025)
	}
	assert.Equal(t, []string{"RAKE-1", "RAKE-2", "RAKE-3", "RAKE-4"}, ids)

	assert.Equal(t, 180000.0, shipments[1].CurrentCost)
	assert.Equal(t, 0.0, shipments[3].CurrentCost)
	assert.True(t, time.Date(2025, 10, 16, 14, 45, 0, 0, time.UTC).Equal(shipments[3].ETA))
}

const dirtyCSV = `rake_id,cargo,loading_point,destination,wagon_count,eta,current_cost
RAKE-1,Wire Rods,Bokaro,Mumbai,5,2025-10-13T05:42:59Z,225000
RAKE-1,Wire Rods,Bokaro,Mumbai,5,2025-10-13T05:42:59Z,225000
RAKE-2,,Bokaro,Mumbai,3,2025-10-13T07:42:59Z,100000
RAKE-3,TMT,Bokaro,,2,2025-10-13T08:42:59Z,50000
RAKE-4,TMT,Bokaro,Mumbai,-1,2025-10-13T09:42:59Z,50000
RAKE-5,TMT,Bokaro,Mumbai,2,INVALID,50000
`

func TestRun_DirtyInput(t *testing.T) {
	result := New(nil, nil).Run(writeCSV(t, dirtyCSV))

	assert.False(t, result.Success)
	assert.Nil(t, result.Shipments)
	assert.Equal(t, cleaner.Stats{Input: 6, MissingRequired: 1, Duplicates: 1, Output: 4}, result.Stats.Cleaning)

	var verr *types.ValidationError
	require.True(t, errors.As(result.Error, &verr))
	assert.Equal(t, "Validation failed:\nrow 3: wagon_count must be >= 0", result.Error.Error())
}

func TestRun_ETAFailureAfterValidation(t *testing.T) {
	path := writeCSV(t, `rake_id,cargo,loading_point,destination,wagon_count,eta,current_cost
RAKE-1,Wire Rods,Bokaro,Mumbai,5,2025-10-13T05:42:59Z,225000
RAKE-5,TMT,Bokaro,Mumbai,2,INVALID,50000
`)

	result := New(nil, nil).Run(path)

	require.Error(t, result.Error)
	assert.Equal(t, "ETA conversion failed:\nrow 2: could not parse eta -> 'INVALID'", result.Error.Error())
	assert.Equal(t, 2, result.Stats.RowsValidated)
	assert.Equal(t, 0, result.Stats.ShipmentsCreated)
}

func TestRun_ScenarioC_D(t *testing.T) {
	path := writeCSV(t, `rake_id,cargo,loading_point,destination,wagon_count,eta,current_cost
RAKE-1,Coal,Korba,Nagpur,"1,234",2025-10-13 05:42,
`)

	shipments, err := Preprocess(path)
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, 1234, shipments[0].WagonCount)
	assert.Equal(t, 0.0, shipments[0].CurrentCost)
}

func TestRun_NotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")

	_, err := Preprocess(missing)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.Equal(t, "CSV file not found: "+missing, err.Error())
}

func TestRun_SchemaError(t *testing.T) {
	path := writeCSV(t, "rake_id,cargo,loading_point,wagon_count,eta\nR,C,L,1,2025-10-13\n")

	_, err := Preprocess(path)

	var schemaErr *types.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "CSV missing columns: destination, current_cost", err.Error())
}

func TestRun_Workbook(t *testing.T) {
	shipments, err := Preprocess(samplePath)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "shipments.xlsx")
	require.NoError(t, export.WriteXLSX(path, shipments))

	again, err := Preprocess(path)
	require.NoError(t, err)
	require.Len(t, again, len(shipments))
	for i := range shipments {
		assert.Equal(t, shipments[i].RakeID, again[i].RakeID)
		assert.True(t, shipments[i].ETA.Equal(again[i].ETA))
	}
}

func TestRun_WorkbookDateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"rake_id", "cargo", "loading_point", "destination", "wagon_count", "eta", "current_cost"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"RAKE-1", "Coal", "Korba", "Nagpur", 4, time.Date(2025, 10, 13, 5, 42, 0, 0, time.UTC), 1000}))

	path := filepath.Join(t.TempDir(), "planning.xlsx")
	require.NoError(t, f.SaveAs(path))

	shipments, err := Preprocess(path)
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.True(t, time.Date(2025, 10, 13, 5, 42, 0, 0, time.UTC).Equal(shipments[0].ETA))
	assert.Equal(t, 4, shipments[0].WagonCount)
}

func TestRun_DelimiterSetting(t *testing.T) {
	path := writeCSV(t, `rake_id;cargo;loading_point;destination;wagon_count;eta;current_cost
RAKE-1;Coal;Korba;Nagpur;4;2025-10-13T05:42:59Z;1000
`)

	cfg := config.Default()
	cfg.CSVSettings.Delimiter = "semicolon"

	result := New(cfg, nil).Run(path)
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Len(t, result.Shipments, 1)
}

func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "debug", "text")

	result := New(nil, logger).Run(samplePath)
	require.NoError(t, result.Error)

	out := buf.String()
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, out, "run_id="+result.RunID)
	assert.Contains(t, out, "Processing complete")
	assert.Contains(t, out, "duplicates=0")
	assert.Greater(t, result.Stats.ProcessingTime, time.Duration(0))
}
