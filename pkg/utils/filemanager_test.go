package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, IsRegularFile(file))
	assert.False(t, IsRegularFile(dir))
	assert.False(t, IsRegularFile(filepath.Join(dir, "missing.csv")))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{original}_{uuid}", map[string]string{
		"original": "shipments",
		"uuid":     "run-1",
	}, ".yaml")
	assert.Equal(t, "shipments_run-1.yaml", name)

	// Extension is not doubled.
	assert.Equal(t, "report.yaml", GenerateOutputFileName("report.yaml", nil, ".yaml"))

	// Random UUID and timestamp when not supplied.
	name = GenerateOutputFileName("{timestamp}_{uuid}", nil, ".xml")
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f-]{36}\.xml$`), name)

	// Separators from placeholder values are neutralised.
	name = GenerateOutputFileName("{original}", map[string]string{"original": "../etc/passwd"}, "")
	assert.False(t, strings.Contains(name, "/"))
}

func TestWriteRunReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	started := time.Date(2025, 10, 13, 5, 0, 0, 0, time.UTC)

	report := RunReport{
		RunID:      "0d7c6a40-0000-4000-8000-000000000000",
		InputFile:  "/data/shipments.csv",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Duration:   1500 * time.Millisecond,
		Success:    true,
		Cleaning:   CleaningReport{RowsRead: 6, MissingRequired: 1, Duplicates: 1, RowsKept: 4},
		Summary: &SummaryReport{
			Rows:          4,
			Wagons:        14,
			TotalCost:     500000,
			ByDestination: map[string]int{"Mumbai": 9, "Chennai": 5},
		},
	}

	path, err := WriteRunReport(report, dir, "{original}_{uuid}")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shipments_0d7c6a40-0000-4000-8000-000000000000.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "0d7c6a40-0000-4000-8000-000000000000", decoded["run_id"])
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "1.5s", decoded["duration"])
	assert.NotContains(t, decoded, "error")

	cleaning, ok := decoded["cleaning"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, cleaning["duplicates"])
}
