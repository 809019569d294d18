package scope

import (
	"regexp"
	"strings"

	"github.com/arclang/archetype/value"
)

// Provenance tags why a value is in the store, and determines whether a
// later write is allowed to replace it (spec.md §4.4).
type Provenance int

const (
	User Provenance = iota
	Preset
	Default
	LocalVar
	External
)

func (p Provenance) String() string {
	switch p {
	case User:
		return "user"
	case Preset:
		return "preset"
	case Default:
		return "default"
	case LocalVar:
		return "local-var"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// precedence ranks provenance kinds high-to-low: Preset/External > User >
// Default > LocalVar.
func precedence(p Provenance) int {
	switch p {
	case Preset, External:
		return 3
	case User:
		return 2
	case Default:
		return 1
	case LocalVar:
		return 0
	default:
		return -1
	}
}

type entry struct {
	value value.Value
	kind  Provenance
}

// Context is the mutable, per-run state the controller, validator and
// permutation engine thread through a walk: the value store, the current
// scope, and the CWD stack (spec.md §4.4).
type Context struct {
	root    *Scope
	current *Scope
	values  map[string]entry
	cwd     []string

	optionValue value.Value
	hasOption   bool
}

// New creates a fresh Context rooted at an empty scope tree.
func New() *Context {
	root := NewRoot()
	return &Context{
		root:    root,
		current: root,
		values:  map[string]entry{},
	}
}

// Current returns the scope presently in effect.
func (c *Context) Current() *Scope { return c.current }

// PushScope makes s the current scope, returning a function that restores
// the previous one. Callers must invoke the returned function on every
// exit path, including errors (spec.md §5 "Scope push/pop is likewise
// balanced").
func (c *Context) PushScope(s *Scope) func() {
	prev := c.current
	c.current = s
	return func() { c.current = prev }
}

// PushCWD pushes a new current-working-directory root, returning a
// function that pops it. Neither the walker nor the controller calls it;
// entering an INVOKE_DIR block does not push a CWD.
func (c *Context) PushCWD(dir string) func() {
	c.cwd = append(c.cwd, dir)
	return func() {
		c.cwd = c.cwd[:len(c.cwd)-1]
	}
}

// PushOptionValue binds the current scope's "option-value" to v for the
// duration of an Option subtree's visit, returning a restore function
// (spec.md §4.6: "option block contributes option-value to the current
// scope only while its subtree is active").
func (c *Context) PushOptionValue(v value.Value) func() {
	prevValue, prevHas := c.optionValue, c.hasOption
	c.optionValue = v
	c.hasOption = true
	return func() {
		c.optionValue = prevValue
		c.hasOption = prevHas
	}
}

// OptionValue returns the innermost active option-value binding, if any.
func (c *Context) OptionValue() (value.Value, bool) {
	return c.optionValue, c.hasOption
}

// CWD returns the current working directory, or "" if the stack is empty.
func (c *Context) CWD() string {
	if len(c.cwd) == 0 {
		return ""
	}
	return c.cwd[len(c.cwd)-1]
}

// PutValue stores a value under an absolute path, honoring provenance
// precedence: a write whose kind ranks lower than the path's existing
// kind is a no-op (spec.md §4.4).
func (c *Context) PutValue(path string, v value.Value, kind Provenance) {
	if existing, ok := c.values[path]; ok {
		if precedence(kind) < precedence(existing.kind) {
			return
		}
	}
	c.values[path] = entry{value: v, kind: kind}
}

// Kind returns the provenance of a stored path, if any.
func (c *Context) Kind(path string) (Provenance, bool) {
	e, ok := c.values[path]
	return e.kind, ok
}

// UserValues returns every stored path whose provenance is User, the set
// the permutation engine deduplicates on (spec.md §4.8 step 3 "deduplicate
// by the observed user-kind values only").
func (c *Context) UserValues() map[string]value.Value {
	out := map[string]value.Value{}
	for path, e := range c.values {
		if e.kind == User {
			out[path] = e.value
		}
	}
	return out
}

// AllValues returns every stored path regardless of provenance, for
// callers (the `run` command) that report a run's complete resolved
// state rather than only the user-kind subset UserValues restricts to.
func (c *Context) AllValues() map[string]value.Value {
	out := make(map[string]value.Value, len(c.values))
	for path, e := range c.values {
		out[path] = e.value
	}
	return out
}

// GetValue resolves a path starting at the current scope and walking
// upward to the root; a leading "~" looks starting from the current
// scope's parent (spec.md §9 open question, resolved as parent-scope
// lookup). Returns false if nothing in the chain has a value for path.
func (c *Context) GetValue(path string) (value.Value, bool) {
	start := c.current
	if strings.HasPrefix(path, "~") {
		path = strings.TrimPrefix(path, "~")
		if start.parent != nil {
			start = start.parent
		}
	}
	for s := start; s != nil; s = s.parent {
		if e, ok := c.values[joinPath(s.AbsolutePath(), path)]; ok {
			return e.value, true
		}
	}
	if e, ok := c.values[path]; ok {
		return e.value, true
	}
	return value.NullValue, false
}

var interpPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces every ${var} occurrence in raw with its resolved
// string form. An unresolved reference is a fatal UnresolvedVariableError
// (spec.md §4.4).
func (c *Context) Interpolate(raw string) (string, error) {
	var firstErr error
	out := interpPattern.ReplaceAllStringFunc(raw, func(m string) string {
		name := interpPattern.FindStringSubmatch(m)[1]
		v, ok := c.GetValue(name)
		if !ok {
			if firstErr == nil {
				firstErr = &UnresolvedVariableError{Name: name}
			}
			return m
		}
		s, err := v.AsString()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return m
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
