// =============================================================================
// rakeprep - Process Command
// =============================================================================
//
// This file holds the work behind the root command: it runs the pipeline on
// one file and prints the operator summary.
//
// PROCESSING STEPS:
//   1. Load configuration (file, then RAKEPREP_* environment)
//   2. Set up logging (stderr, plus the configured log file)
//   3. Run the pipeline
//   4. Write the run report (--report), successful or not
//   5. Print "Error: ..." and exit 1, or print the summary
//   6. Write the export file (--export)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/railops/rakeprep/internal/config"
	"github.com/railops/rakeprep/internal/export"
	"github.com/railops/rakeprep/internal/logging"
	"github.com/railops/rakeprep/internal/pipeline"
	"github.com/railops/rakeprep/internal/summary"
	"github.com/railops/rakeprep/internal/types"
	"github.com/railops/rakeprep/pkg/utils"
)

// Supported --export extensions.
const (
	exportXML  = ".xml"
	exportXLSX = ".xlsx"
)

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess preprocesses path and prints the outcome. Every failure is
// printed here and returned as an *exitError.
func runProcess(opts *options, path string, stdout, stderr io.Writer) error {
	fail := func(code int, err error) error {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return &exitError{code: code, err: err}
	}

	if opts.exportPath != "" {
		if _, err := exportFormat(opts.exportPath); err != nil {
			return fail(ExitUsage, err)
		}
	}

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := config.LoadMainConfig(opts.configFile)
	if err != nil {
		return fail(ExitError, fmt.Errorf("failed to load config: %w", err))
	}

	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	// =========================================================================
	// STEP 2: SET UP LOGGING
	// =========================================================================

	logger, closer, err := logging.Setup(cfg.Logging, stderr)
	if err != nil {
		return fail(ExitError, err)
	}
	defer closer.Close()

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	result := pipeline.New(cfg, logger).Run(path)

	var sum *summary.Summary
	if result.Success {
		s := summary.Summarize(result.Shipments)
		sum = &s
	}

	// =========================================================================
	// STEP 4: RUN REPORT
	// =========================================================================

	if opts.report {
		reportPath, err := utils.WriteRunReport(buildRunReport(result, sum), cfg.OutputDir, cfg.ReportNameFormat)
		if err != nil {
			return fail(ExitError, err)
		}
		logger.Info("Run report written", "run_id", result.RunID, "report", reportPath)
	}

	// =========================================================================
	// STEP 5: PRINT OUTCOME
	// =========================================================================

	if result.Error != nil {
		return fail(ExitError, result.Error)
	}

	if err := summary.Print(stdout, *sum); err != nil {
		return fail(ExitError, err)
	}

	// =========================================================================
	// STEP 6: EXPORT
	// =========================================================================

	if opts.exportPath != "" {
		if err := writeExport(opts.exportPath, result.Shipments); err != nil {
			return fail(ExitError, err)
		}
		logger.Info("Shipments exported", "run_id", result.RunID, "file", opts.exportPath)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// exportFormat returns the lower-cased extension of an export path, or an
// error if the format is not supported.
func exportFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case exportXML, exportXLSX:
		return ext, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .xml or .xlsx)", filepath.Ext(path))
	}
}

// writeExport writes shipments to path in the format named by its extension.
func writeExport(path string, shipments []types.Shipment) error {
	ext, err := exportFormat(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if ext == exportXLSX {
		return export.WriteXLSX(path, shipments)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := export.WriteXML(file, shipments); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// buildRunReport converts a pipeline result into the report document.
func buildRunReport(result pipeline.Result, sum *summary.Summary) utils.RunReport {
	report := utils.RunReport{
		RunID:      result.RunID,
		InputFile:  result.FilePath,
		StartedAt:  result.Stats.StartedAt,
		FinishedAt: result.Stats.StartedAt.Add(result.Stats.ProcessingTime),
		Duration:   result.Stats.ProcessingTime,
		Success:    result.Success,
		Cleaning: utils.CleaningReport{
			RowsRead:        result.Stats.Cleaning.Input,
			MissingRequired: result.Stats.Cleaning.MissingRequired,
			Duplicates:      result.Stats.Cleaning.Duplicates,
			RowsKept:        result.Stats.Cleaning.Output,
		},
	}

	if result.Error != nil {
		report.Error = result.Error.Error()
	}

	if sum != nil {
		report.Summary = &utils.SummaryReport{
			Rows:          sum.Rows,
			Wagons:        sum.Wagons,
			TotalCost:     sum.TotalCost,
			ByDestination: sum.ByDestination,
		}
	}

	return report
}
