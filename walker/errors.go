package walker

import "fmt"

// InvocationError wraps a failure resolving or expanding an Invocation
// target (spec.md §4.6, §7).
type InvocationError struct {
	Target string
	Cause  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invocation %q failed: %v", e.Target, e.Cause)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

// CycleDetectedError is raised when an invocation re-enters its own
// expansion (spec.md §5, §8 "Cycle: method a calls b which calls a").
type CycleDetectedError struct {
	Target string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected at invocation %q", e.Target)
}
