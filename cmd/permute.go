package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/arclang/archetype/analytics"
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/output"
	"github.com/arclang/archetype/permute"
	"github.com/arclang/archetype/script"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var permuteCmd = &cobra.Command{
	Use:   "permute <script>",
	Short: "Enumerate the distinct input permutations an archetype script can produce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.PermuteCommand)
		maxPerms, _ := cmd.Flags().GetInt("cap")
		asJSON, _ := cmd.Flags().GetBool("json")

		logger := newLogger(cmd)
		stopLoad := logger.Phase(output.PhaseLoad, "Loading %s...", args[0])
		loader := script.New(script.FileSource{}, ast.NewIDGenerator())
		s, err := loader.Load(args[0])
		stopLoad()
		if err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		resolver := script.NewResolver(loader, script.FileSource{}, args[0])

		stopPermute := logger.Phase(output.PhasePermute, "Enumerating permutations...")
		engine := permute.New()
		if maxPerms > 0 {
			engine.Cap = maxPerms
		}
		perms, err := engine.Run(s.Root, resolver)
		stopPermute()
		if err != nil {
			return fmt.Errorf("permute script: %w", err)
		}
		logger.Statistic("%d permutation(s) found", len(perms))
		logger.PrintTimingSummary()

		// One fresh run-scoped id is minted per invocation and printed
		// with the permutations (text header or JSON run_id) so downstream
		// storage of exhaustive answer sets can join results from
		// separate `archetype permute` invocations.
		runID := uuid.New().String()
		if asJSON {
			return printPermutationsJSON(cmd, runID, perms)
		}
		printPermutationsText(cmd, runID, perms)
		return nil
	},
}

func printPermutationsText(cmd *cobra.Command, runID string, perms []permute.Permutation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d permutation(s)\n", runID, len(perms))
	for i, p := range perms {
		paths := make([]string, 0, len(p))
		for path := range p {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		fmt.Fprintf(out, "\n#%d\n", i+1)
		for _, path := range paths {
			s, _ := p[path].AsString()
			fmt.Fprintf(out, "  %s = %s\n", path, s)
		}
	}
}

func printPermutationsJSON(cmd *cobra.Command, runID string, perms []permute.Permutation) error {
	type result struct {
		RunID        string              `json:"run_id"`
		Permutations []map[string]string `json:"permutations"`
	}
	r := result{RunID: runID, Permutations: make([]map[string]string, 0, len(perms))}
	for _, p := range perms {
		rendered := make(map[string]string, len(p))
		for path, v := range p {
			s, _ := v.AsString()
			rendered[path] = s
		}
		r.Permutations = append(r.Permutations, rendered)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func init() {
	rootCmd.AddCommand(permuteCmd)
	permuteCmd.Flags().Int("cap", 0, "Maximum number of permutations to return (0 uses the engine default)")
	permuteCmd.Flags().Bool("json", false, "Emit permutations as a JSON document instead of text")
}
