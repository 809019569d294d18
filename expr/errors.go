package expr

import "fmt"

// FormatError is raised by the lexer/parser on malformed source.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return fmt.Sprintf("format error: %s", e.Msg) }

// UnresolvedVariableError is raised by the evaluator when the resolver has
// nothing for a referenced name.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved variable: %s", e.Name)
}

// EvalError is raised by the evaluator on type misuse (e.g. NOT applied to
// a non-boolean operand).
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return fmt.Sprintf("eval error: %s", e.Msg) }
