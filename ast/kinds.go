package ast

// BlockKind tags the non-input, non-invocation structural elements of an
// archetype script (spec.md §3, §6).
type BlockKind int

const (
	Script BlockKind = iota
	Methods
	Method
	Step
	Option
	Inputs
	Presets
	Variables
	Output
	Templates
	Template
	Files
	File
	Model
	Map
	MapValue
	Transformation
	Replace
	Includes
	Include
	Excludes
	Exclude
	InvokeDir
	Invoke
	Validations
	Validation
	Regex
)

var blockKindNames = map[BlockKind]string{
	Script:         "script",
	Methods:        "methods",
	Method:         "method",
	Step:           "step",
	Option:         "option",
	Inputs:         "inputs",
	Presets:        "presets",
	Variables:      "variables",
	Output:         "output",
	Templates:      "templates",
	Template:       "template",
	Files:          "files",
	File:           "file",
	Model:          "model",
	Map:            "map",
	MapValue:       "value",
	Transformation: "transformation",
	Replace:        "replace",
	Includes:       "includes",
	Include:        "include",
	Excludes:       "excludes",
	Exclude:        "exclude",
	InvokeDir:      "invoke-dir",
	Invoke:         "invoke",
	Validations:    "validations",
	Validation:     "validation",
	Regex:          "regex",
}

func (k BlockKind) String() string {
	if s, ok := blockKindNames[k]; ok {
		return s
	}
	return "unknown-block"
}

// InputKind tags the variants of Input nodes (spec.md §3 "Input variants").
type InputKind int

const (
	OptionInput InputKind = iota
	BooleanInput
	TextInput
	EnumInput
	ListInput
)

func (k InputKind) String() string {
	switch k {
	case OptionInput:
		return "option"
	case BooleanInput:
		return "boolean"
	case TextInput:
		return "text"
	case EnumInput:
		return "enum"
	case ListInput:
		return "list"
	default:
		return "unknown-input"
	}
}

// IsDeclared reports whether this kind participates as a DeclaredInput
// (every kind except Option, which only contributes an option-value to
// the enclosing scope while its subtree is active).
func (k InputKind) IsDeclared() bool { return k != OptionInput }

// InvocationKind tags how an Invocation node resolves its target.
type InvocationKind int

const (
	Exec InvocationKind = iota
	Source
	Call
)

func (k InvocationKind) String() string {
	switch k {
	case Exec:
		return "exec"
	case Source:
		return "source"
	case Call:
		return "call"
	default:
		return "unknown-invocation"
	}
}
