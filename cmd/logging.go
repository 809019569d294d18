package cmd

import (
	"github.com/arclang/archetype/output"
	"github.com/spf13/cobra"
)

// newLogger builds an output.Logger at the verbosity requested by the
// persistent --verbose/--debug flags (spec.md §10.1's leveled logger).
func newLogger(cmd *cobra.Command) *output.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	verbose, _ := cmd.Flags().GetBool("verbose")
	switch {
	case debug:
		return output.NewLogger(output.VerbosityDebug)
	case verbose:
		return output.NewLogger(output.VerbosityVerbose)
	default:
		return output.NewLogger(output.VerbosityDefault)
	}
}
