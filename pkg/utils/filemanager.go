// =============================================================================
// rakeprep - File Manager Utilities
// =============================================================================
//
// This package contains file helpers shared by the readers and the CLI:
//   - Regular-file checks for input paths
//   - Output file naming with {uuid}/{timestamp} placeholders
//   - Run report generation (YAML)
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// FILE CHECKS
// =============================================================================

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - params["uuid"], or a random UUID when absent
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - params["original"]
//   - params: Extra placeholder values, keyed without braces.
//   - ext: The extension to enforce, e.g. ".yaml".
//
// EXAMPLE:
//   format: "{original}_{timestamp}_{uuid}.yaml"
//   params: {"original": "shipments"}
//   output: "shipments_20251013_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.yaml"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Placeholder values must not introduce path separators.
	result = strings.ReplaceAll(result, string(filepath.Separator), "_")
	result = strings.ReplaceAll(result, "/", "_")

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// RUN REPORT
// =============================================================================

// RunReport describes one preprocessing run.
type RunReport struct {
	RunID      string        `yaml:"run_id"`
	InputFile  string        `yaml:"input_file"`
	StartedAt  time.Time     `yaml:"started_at"`
	FinishedAt time.Time     `yaml:"finished_at"`
	Duration   time.Duration `yaml:"duration"`
	Success    bool          `yaml:"success"`
	Error      string        `yaml:"error,omitempty"`

	Cleaning CleaningReport `yaml:"cleaning"`
	Summary  *SummaryReport `yaml:"summary,omitempty"`
}

// CleaningReport holds the row counts of the cleaning stage.
type CleaningReport struct {
	RowsRead        int `yaml:"rows_read"`
	MissingRequired int `yaml:"missing_required"`
	Duplicates      int `yaml:"duplicates"`
	RowsKept        int `yaml:"rows_kept"`
}

// SummaryReport holds the statistics of a successful run.
type SummaryReport struct {
	Rows          int            `yaml:"rows"`
	Wagons        int            `yaml:"wagons"`
	TotalCost     float64        `yaml:"total_cost"`
	ByDestination map[string]int `yaml:"by_destination"`
}

// WriteRunReport writes a run report as YAML.
//
// PARAMETERS:
//   - report: The run report.
//   - outputDir: The directory to write into; created if missing.
//   - nameFormat: File name format, see GenerateOutputFileName. {uuid} is
//     the run ID and {original} the input file name without extension.
//
// RETURNS:
//   - The path to the report file.
//   - An error if writing fails.
func WriteRunReport(report RunReport, outputDir, nameFormat string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	original := strings.TrimSuffix(filepath.Base(report.InputFile), filepath.Ext(report.InputFile))
	name := GenerateOutputFileName(nameFormat, map[string]string{
		"uuid":     report.RunID,
		"original": original,
	}, ".yaml")
	path := filepath.Join(outputDir, name)

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode run report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}

	return path, nil
}
