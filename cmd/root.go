package cmd

import (
	"github.com/arclang/archetype/analytics"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "archetype",
	Short: "Archetype - an interpreter for project-archetype wizard scripts",
	Long:  `Archetype loads, validates, runs and permutes project-archetype wizard scripts.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show progress and statistics")
	rootCmd.PersistentFlags().Bool("debug", false, "Show progress, statistics and timestamped debug output")
}
