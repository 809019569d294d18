package script

import "fmt"

// FormatError is raised by the XML loader on a malformed or schema-
// violating script (spec.md §7).
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
