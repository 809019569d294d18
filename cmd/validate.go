package cmd

import (
	"fmt"
	"os"

	"github.com/arclang/archetype/analytics"
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/output"
	"github.com/arclang/archetype/script"
	"github.com/arclang/archetype/validator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script>",
	Short: "Statically check an archetype script for semantic errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ValidateCommand)
		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output-file")

		logger := newLogger(cmd)
		stopLoad := logger.Phase(output.PhaseLoad, "Loading %s...", args[0])
		loader := script.New(script.FileSource{}, ast.NewIDGenerator())
		s, err := loader.Load(args[0])
		stopLoad()
		if err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		resolver := script.NewResolver(loader, script.FileSource{}, args[0])

		stopValidate := logger.Phase(output.PhaseValidate, "Validating...")
		diags := validator.Validate(s.Root, s, resolver)
		stopValidate()
		logger.Statistic("%d diagnostic(s) found", len(diags))
		logger.PrintTimingSummary()

		switch format {
		case "sarif":
			w := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := validator.WriteSARIF(w, diags); err != nil {
				return fmt.Errorf("write sarif: %w", err)
			}
		default:
			printDiagnostics(cmd, diags)
		}

		if hasError(diags) {
			analytics.ReportEvent(analytics.ValidateCommandFailed)
			os.Exit(1)
		}
		return nil
	},
}

func printDiagnostics(cmd *cobra.Command, diags []validator.Diagnostic) {
	out := cmd.OutOrStdout()
	if len(diags) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return
	}
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, d := range diags {
		label := yellow("warning")
		if validator.Severity(d.Code) == "error" {
			label = red("error")
		}
		fmt.Fprintf(out, "%s: %s [%s]\n", label, d.String(), d.Code)
	}
	fmt.Fprintf(out, "\n%d issue(s) found.\n", len(diags))
}

func hasError(diags []validator.Diagnostic) bool {
	for _, d := range diags {
		if validator.Severity(d.Code) == "error" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("format", "o", "text", "Output format: text or sarif")
	validateCmd.Flags().StringP("output-file", "f", "", "Write the report to this file instead of stdout")
}
