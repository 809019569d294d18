package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arclang/archetype/analytics"
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/controller"
	"github.com/arclang/archetype/output"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/script"
	"github.com/arclang/archetype/value"
	"github.com/arclang/archetype/walker"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute an archetype script and print the resolved input values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.RunCommand)
		sets, _ := cmd.Flags().GetStringArray("set")
		overrides, err := parseSets(sets)
		if err != nil {
			return err
		}

		logger := newLogger(cmd)
		stopLoad := logger.Phase(output.PhaseLoad, "Loading %s...", args[0])
		loader := script.New(script.FileSource{}, ast.NewIDGenerator())
		s, err := loader.Load(args[0])
		stopLoad()
		if err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		resolver := script.NewResolver(loader, script.FileSource{}, args[0])

		stopWalk := logger.Phase(output.PhaseWalk, "Walking script...")
		ctx := scope.New()
		ctrl := controller.New(ctx, flagResolver{overrides: overrides, fallback: controller.DefaultResolver{}})
		w := walker.New(resolver, ctrl)
		err = w.Walk(s.Root, s)
		stopWalk()
		if err != nil {
			analytics.ReportEvent(analytics.RunCommandFailed)
			return fmt.Errorf("run script: %w", err)
		}

		values := ctx.AllValues()
		logger.Statistic("%d value(s) resolved", len(values))
		logger.PrintTimingSummary()
		printValues(cmd, values)
		return nil
	},
}

func printValues(cmd *cobra.Command, values map[string]value.Value) {
	out := cmd.OutOrStdout()
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		s, _ := values[p].AsString()
		fmt.Fprintf(out, "%s = %s\n", p, s)
	}
}

// parseSets turns a repeated --set path=value flag into an overrides map.
func parseSets(sets []string) (map[string]string, error) {
	out := map[string]string{}
	for _, raw := range sets {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("--set expects path=value, got %q", raw)
		}
		out[parts[0]] = parts[1]
	}
	return out, nil
}

// flagResolver answers a DeclaredInput from a --set override when its
// absolute path was supplied, otherwise defers to fallback (spec.md §6
// "InputResolver: prompt(DeclaredInput, Scope, Context) -> Value" — a
// CLI flag is simply one more InputResolver implementation).
type flagResolver struct {
	overrides map[string]string
	fallback  controller.InputResolver
}

func (f flagResolver) Resolve(n *ast.Node, s *scope.Scope, ctx *scope.Context) (value.Value, error) {
	raw, ok := f.overrides[s.AbsolutePath()]
	if !ok {
		return f.fallback.Resolve(n, s, ctx)
	}
	switch n.Input.Kind {
	case ast.BooleanInput:
		b, ok := value.ParseBool(raw)
		if !ok {
			return value.NullValue, fmt.Errorf("invalid boolean for %s: %q", s.AbsolutePath(), raw)
		}
		return value.NewBool(b), nil
	case ast.ListInput:
		return value.ParseStringList(raw), nil
	default:
		return value.NewString(raw), nil
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArray("set", nil, "Override a declared input: --set path=value (repeatable)")
}
