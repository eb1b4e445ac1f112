// =============================================================================
// rakeprep - Main Entry Point
// =============================================================================
//
// This is the main entry point for the rakeprep CLI. It delegates to the cmd
// package and exits with the code it returns.
//
// USAGE:
//   rakeprep <path/to/shipments.csv>   - Preprocess a file and print a summary
//   rakeprep version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : pipeline stages, configuration, logging, exports
//   - pkg/       : shared file utilities and run reports
//
// =============================================================================

package main

import (
	"os"

	"github.com/railops/rakeprep/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
