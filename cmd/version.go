// =============================================================================
// rakeprep - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   rakeprep version
//
// OUTPUT:
//   rakeprep
//   Version:    1.0.0
//   Build Date: 2025-10-13
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/railops/rakeprep/cmd.Version=1.0.0' -X 'github.com/railops/rakeprep/cmd.BuildDate=2025-10-13'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// newVersionCmd builds the 'version' command.
func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Long:  `Display the application version, build date, and Go runtime version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, "rakeprep")
			fmt.Fprintf(stdout, "Version:    %s\n", Version)
			fmt.Fprintf(stdout, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(stdout, "Go Version: %s\n", runtime.Version())
		},
	}
}
