package cmd

import (
	"fmt"

	"github.com/arclang/archetype/analytics"
	"github.com/spf13/cobra"
)

// Version and GitCommit are stamped at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "HEAD"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and commit information",
	Run: func(*cobra.Command, []string) {
		analytics.ReportEvent(analytics.VersionCommand)
		fmt.Printf("Version: %s\nGit Commit: %s\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
