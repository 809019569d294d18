package validator

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// Severity maps a diagnostic Code to a SARIF result level / CLI display
// tier. Structural and preset-consistency problems are errors; everything
// else is a warning (spec.md §4.7 doesn't rank codes, so this grouping is
// the validator's own call — see DESIGN.md).
func Severity(c Code) string {
	switch c {
	case ExprUnresolvedVariable, ExprEvalError, PresetUnresolved, PresetTypeMismatch, InputTypeMismatch:
		return "error"
	default:
		return "warning"
	}
}

// WriteSARIF encodes diags as a SARIF 2.1.0 log to w, one rule per unique
// Code and one result per diagnostic occurrence. Grounded on the sibling
// pack repo's sast-engine/output/sarif_formatter.go, adapted from
// detection findings to validator diagnostics.
func WriteSARIF(w io.Writer, diags []Diagnostic) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("archetype-validate", "https://github.com/arclang/archetype")

	seen := map[Code]bool{}
	for _, d := range diags {
		if seen[d.Code] {
			continue
		}
		seen[d.Code] = true
		run.AddRule(string(d.Code)).
			WithDescription(string(d.Code)).
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(Severity(d.Code)))
	}

	for _, d := range diags {
		message := d.Message
		if d.Detail != "" {
			message += ": " + d.Detail
		}
		result := run.CreateResultForRule(string(d.Code)).
			WithMessage(sarif.NewTextMessage(message))

		region := sarif.NewRegion().WithStartLine(d.Line)
		if d.Col > 0 {
			region.WithStartColumn(d.Col)
		}
		location := sarif.NewLocation().
			WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(d.Path)).
					WithRegion(region),
			)
		result.AddLocation(location)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
