package scope

import "fmt"

// UnresolvedVariableError is raised by interpolation when a ${var}
// reference cannot be resolved (spec.md §4.4, §7).
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved variable: %s", e.Name)
}
