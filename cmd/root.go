// =============================================================================
// rakeprep - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// preprocesses one shipment file; other commands are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rakeprep <path>)
//   └── versionCmd (rakeprep version)
//
// EXIT CODES:
//   0 - success
//   1 - the pipeline (or an output step) failed
//   2 - usage error: missing argument, bad flag, unsupported export format
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageLine is printed when the input path is missing.
const usageLine = "Usage: rakeprep <path/to/shipments.csv>"

// =============================================================================
// OPTIONS
// =============================================================================

// options holds the flag values of one invocation.
type options struct {
	// configFile is the path to the YAML configuration file.
	configFile string

	// verbose forces debug logging.
	verbose bool

	// exportPath, when set, receives the shipments as .xml or .xlsx.
	exportPath string

	// report writes a YAML run report into the configured output directory.
	report bool
}

// exitError carries an exit code through cobra's error return. The message
// has already been printed when it reaches Execute.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree writing to stdout and stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rakeprep [flags] <path>",
		Short: "rakeprep - Clean and validate rail shipment exports",
		Long: `rakeprep loads a shipment export (CSV or XLSX), cleans and validates it,
parses the ETA column and prints a summary of the resulting shipments.

Pipeline:
  read -> clean (trim, drop incomplete rows, drop duplicates)
       -> validate (wagon_count, current_cost)
       -> parse ETA

Example Usage:
  rakeprep data/shipments.csv
  rakeprep -v --report data/shipments.csv
  rakeprep --export shipments.xml data/shipments.csv`,

		Args: cobra.MaximumNArgs(1),

		// Errors are printed by the commands themselves in the
		// "Error: ..." format.
		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(stdout, usageLine)
				return &exitError{code: ExitUsage, err: errors.New("missing input path")}
			}
			return runProcess(opts, args[0], stdout, stderr)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// ==========================================================================
	// FLAGS
	// ==========================================================================

	// --config flag: YAML configuration file.
	rootCmd.PersistentFlags().StringVar(
		&opts.configFile,
		"config",
		"",
		"Path to the configuration file (default is rakeprep.yaml when present)",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --export flag: Write the shipments to a file.
	rootCmd.Flags().StringVar(
		&opts.exportPath,
		"export",
		"",
		"Write the shipments to FILE (.xml or .xlsx)",
	)

	// --report flag: Write a YAML run report.
	rootCmd.Flags().BoolVar(
		&opts.report,
		"report",
		false,
		"Write a YAML run report into the output directory",
	)

	rootCmd.AddCommand(newVersionCmd(stdout))

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and returns the exit code.
// It is called by main.main().
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes the command tree with args and maps the outcome to an exit
// code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// Flag and argument errors from cobra.
	fmt.Fprintf(stdout, "Error: %v\n", err)
	fmt.Fprintln(stdout, usageLine)
	return ExitUsage
}
