// =============================================================================
// rakeprep - Pipeline Module
// =============================================================================
//
// This module composes the preprocessing stages for a single input file.
//
// PIPELINE:
//   1. Read      - csvparser (or xlsxparser for .xlsx) -> []RawRecord
//   2. Clean     - cleaner                             -> []NormalizedRecord
//   3. Validate  - validation                          -> []ValidatedRecord
//   4. Convert   - temporal                            -> []Shipment
//
// Control only moves forward. The first stage that fails ends the run and
// its error is returned unchanged, so callers can use errors.Is/As on it.
//
// =============================================================================

package pipeline

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/railops/rakeprep/internal/cleaner"
	"github.com/railops/rakeprep/internal/config"
	"github.com/railops/rakeprep/internal/csvparser"
	"github.com/railops/rakeprep/internal/logging"
	"github.com/railops/rakeprep/internal/temporal"
	"github.com/railops/rakeprep/internal/types"
	"github.com/railops/rakeprep/internal/validation"
	"github.com/railops/rakeprep/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// FilePath is the path to the input file that was processed.
	FilePath string

	// Shipments holds the pipeline output. It is nil if processing failed.
	Shipments []types.Shipment

	// Success indicates whether every stage succeeded.
	Success bool

	// Error is the error of the failing stage, or nil.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing. Counts of stages
// that did not run are zero.
type ProcessingStats struct {
	// Cleaning holds the row counts of the Cleaner stage.
	Cleaning cleaner.Stats

	// RowsValidated is the number of records that passed validation.
	RowsValidated int

	// ShipmentsCreated is the number of shipments produced.
	ShipmentsCreated int

	// StartedAt is when the run began.
	StartedAt time.Time

	// ProcessingTime is the time taken by the whole run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline with a given configuration.
type Converter struct {
	config *config.MainConfig
	logger *slog.Logger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The application configuration. nil means config.Default().
//   - logger: The logger for stage progress. nil discards logs.
func New(cfg *config.MainConfig, logger *slog.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Converter{
		config: cfg,
		logger: logger,
	}
}

// Preprocess runs the pipeline on path with the default configuration and
// returns the shipments, or the first stage error.
func Preprocess(path string) ([]types.Shipment, error) {
	result := New(nil, nil).Run(path)
	return result.Shipments, result.Error
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for one file.
func (c *Converter) Run(path string) Result {
	startTime := time.Now()
	result := Result{
		RunID:    uuid.New().String(),
		FilePath: path,
	}
	result.Stats.StartedAt = startTime

	logger := c.logger.With("run_id", result.RunID, "path", path)
	logger.Info("Processing file")

	fail := func(stage string, err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		logger.Error("Processing failed", "stage", stage, "error", err)
		return result
	}

	// =========================================================================
	// STEP 1: READ
	// =========================================================================

	raw, err := c.load(path)
	if err != nil {
		return fail("read", err)
	}
	logger.Debug("Read input", "rows", len(raw))

	// =========================================================================
	// STEP 2: CLEAN
	// =========================================================================
	// Dropped rows are not errors; they only show up in the stats.

	normalized, stats := cleaner.CleanWithStats(raw)
	result.Stats.Cleaning = stats
	logger.Debug("Cleaned rows",
		"kept", stats.Output,
		"missing_required", stats.MissingRequired,
		"duplicates", stats.Duplicates,
	)

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	validated, err := validation.Validate(normalized)
	if err != nil {
		return fail("validate", err)
	}
	result.Stats.RowsValidated = len(validated)
	logger.Debug("Validated rows", "rows", len(validated))

	// =========================================================================
	// STEP 4: CONVERT ETA
	// =========================================================================

	shipments, err := temporal.Convert(validated)
	if err != nil {
		return fail("convert", err)
	}
	result.Stats.ShipmentsCreated = len(shipments)

	result.Shipments = shipments
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	logger.Info("Processing complete",
		"shipments", len(shipments),
		"duration", result.Stats.ProcessingTime,
	)

	return result
}

// load dispatches on the file extension. Anything that is not a workbook is
// read as delimited text.
func (c *Converter) load(path string) ([]types.RawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Load(path)
	}
	return csvparser.Load(path, c.config.CSVSettings)
}
