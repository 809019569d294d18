package value

import "fmt"

// TypeError reports a failed coercion between value kinds (spec.md §4.1
// ValueTypeError).
type TypeError struct {
	From Kind
	To   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s", e.From, e.To)
}
