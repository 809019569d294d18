// Package ast implements the archetype script abstract syntax tree: a
// single tagged Node type whose variant payload is one of Block,
// Condition, Invocation, Input, Preset, Variable or Validation (spec.md §3,
// §9 — collapsing the source's deep inheritance tree into one enum).
package ast

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/arclang/archetype/value"
)

// Tag discriminates which payload a Node carries.
type Tag int

const (
	TagBlock Tag = iota
	TagCondition
	TagInvocation
	TagInput
	TagPreset
	TagVariable
	TagValidation
)

func (t Tag) String() string {
	switch t {
	case TagBlock:
		return "block"
	case TagCondition:
		return "condition"
	case TagInvocation:
		return "invocation"
	case TagInput:
		return "input"
	case TagPreset:
		return "preset"
	case TagVariable:
		return "variable"
	case TagValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Location pins a node to a script-relative source position.
type Location struct {
	Path string
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Col)
}

// BlockPayload backs Tag == TagBlock, including the DeclaredBlock
// specialization (Script and Method carry a non-empty Name, their unique
// blockName per spec.md §3).
type BlockPayload struct {
	Kind BlockKind
	Name string // blockName: script path, or "path#method"; empty otherwise
}

// IsDeclared reports whether this block is invocable by name
// (DeclaredBlock: Script or Method).
func (b *BlockPayload) IsDeclared() bool {
	return b.Kind == Script || b.Kind == Method
}

// ConditionPayload backs Tag == TagCondition.
type ConditionPayload struct {
	Expression string
}

// InvocationPayload backs Tag == TagInvocation.
type InvocationPayload struct {
	Kind   InvocationKind
	Target string // script path (Exec/Source) or method name (Call)
}

// OptionSpec is one literal option inside an Enum or List input, expressed
// as the value plus an optional node carrying a guarding Condition parent
// in the tree (the option block itself is also reachable via Children).
type OptionSpec struct {
	Value string
	Node  *Node
}

// InputPayload backs Tag == TagInput.
type InputPayload struct {
	Kind       InputKind
	ID         string // declared id; scope-path segment (empty for Option)
	Optional   bool
	Global     bool
	Default    value.Value
	HasDefault bool
	OptionVal  string       // literal value carried by an Option input
	Options    []OptionSpec // literal options for Enum/List, in document order
}

// IsDeclaredInput reports whether this Input is a DeclaredInput (every
// kind except Option).
func (p *InputPayload) IsDeclaredInput() bool { return p.Kind.IsDeclared() }

// PresetPayload backs Tag == TagPreset.
type PresetPayload struct {
	Path   string
	Kind   InputKind
	Value  value.Value
	Values []string // populated instead of Value for list-kind presets
}

// VariablePayload backs Tag == TagVariable.
type VariablePayload struct {
	Path      string
	Value     value.Value
	Transient bool
}

// ValidationPayload backs Tag == TagValidation; its Regex children carry
// the patterns via Children (Block{Kind: Regex}, Attrs["pattern"]).
type ValidationPayload struct {
	ID          string
	Description string
}

// Node is the single tagged AST node type. Nodes are created once by the
// loader, are immutable thereafter, and may be visited many times by
// different walkers (spec.md §3 "Lifecycle").
type Node struct {
	ID         int
	ScriptPath string
	Loc        Location
	Attrs      map[string]string
	Children   []*Node

	Tag Tag

	Block      *BlockPayload
	Condition  *ConditionPayload
	Invocation *InvocationPayload
	Input      *InputPayload
	Preset     *PresetPayload
	Variable   *VariablePayload
	Validation *ValidationPayload

	attrMu    sync.Mutex
	attrCache map[string]value.Value
}

// Attr returns a raw attribute string and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	s, ok := n.Attrs[name]
	return s, ok
}

// AttrValue returns the attribute as a parsed Value, lazily coercing the
// raw string on first access and memoizing the result (spec.md §9
// "Dynamic value" — the Value::Raw variant that memoizes its parsed form
// on first coercion). Booleans and integers are recognized by literal
// form; anything else stays a String. Guarded by a mutex, not sync.Once,
// because the cache is written once per distinct attribute name, not once
// per node (spec.md §5: runs share one immutable AST across goroutines).
func (n *Node) AttrValue(name string) (value.Value, bool) {
	raw, ok := n.Attrs[name]
	if !ok {
		return value.NullValue, false
	}
	n.attrMu.Lock()
	defer n.attrMu.Unlock()
	if n.attrCache == nil {
		n.attrCache = make(map[string]value.Value, len(n.Attrs))
	}
	if v, cached := n.attrCache[name]; cached {
		return v, true
	}
	v := parseAttrLiteral(raw)
	n.attrCache[name] = v
	return v, true
}

func parseAttrLiteral(raw string) value.Value {
	if b, ok := value.ParseBool(raw); ok {
		return value.NewBool(b)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return value.NewInt(n)
	}
	return value.NewString(raw)
}

// String renders the node's source location for diagnostics (spec.md §6
// "stable textual form").
func (n *Node) String() string {
	return n.Loc.String()
}
