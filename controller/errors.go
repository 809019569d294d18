package controller

import "fmt"

// UnresolvedInputError is raised when an InputResolver yields nothing for
// a DeclaredInput (spec.md §4.6 "Failure modes").
type UnresolvedInputError struct {
	Path string
}

func (e *UnresolvedInputError) Error() string {
	return fmt.Sprintf("unresolved input: %s", e.Path)
}

// InvalidOptionError is raised when a resolved Enum/List value is not
// present in the block's (condition-filtered) option set.
type InvalidOptionError struct {
	Path  string
	Value string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option for %s: %q", e.Path, e.Value)
}
