// Package validator implements the static semantic checks of spec.md
// §4.7: a walker that collects diagnostics instead of executing inputs.
package validator

import "fmt"

// Code is a stable diagnostic identifier (spec.md §4.7).
type Code string

const (
	StepNoInput               Code = "STEP_NO_INPUT"
	StepDeclaredOptional       Code = "STEP_DECLARED_OPTIONAL"
	StepNotDeclaredOptional    Code = "STEP_NOT_DECLARED_OPTIONAL"
	ExprUnresolvedVariable     Code = "EXPR_UNRESOLVED_VARIABLE"
	ExprEvalError              Code = "EXPR_EVAL_ERROR"
	InputAlreadyDeclared       Code = "INPUT_ALREADY_DECLARED"
	InputTypeMismatch          Code = "INPUT_TYPE_MISMATCH"
	InputOptionalNoDefault     Code = "INPUT_OPTIONAL_NO_DEFAULT"
	InputNotInStep             Code = "INPUT_NOT_IN_STEP"
	OptionValueAlreadyDeclared Code = "OPTION_VALUE_ALREADY_DECLARED"
	OptionSetEmpty             Code = "OPTION_SET_EMPTY"
	PresetUnresolved           Code = "PRESET_UNRESOLVED"
	PresetTypeMismatch         Code = "PRESET_TYPE_MISMATCH"
)

// Diagnostic is one semantic finding, carrying the stable textual form
// spec.md §6 mandates ("{path}:{line}:{col} {message}: {detail}").
type Diagnostic struct {
	Code    Code
	Path    string
	Line    int
	Col     int
	Message string
	Detail  string
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s:%d:%d %s", d.Path, d.Line, d.Col, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d %s: %s", d.Path, d.Line, d.Col, d.Message, d.Detail)
}
