package validator

import (
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/expr"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/script"
	"github.com/arclang/archetype/value"
	"github.com/arclang/archetype/walker"
)

// Validator is the ast.Visitor used for static validation (spec.md §4.7).
// Unlike the controller it never executes an InputResolver: conditions are
// evaluated against canonical placeholder values for any variable backed
// by a declared input, and every invariant violation becomes a Diagnostic
// instead of a fatal error.
type Validator struct {
	cache *expr.Cache
	diags []Diagnostic

	declared map[string]ast.InputKind // absolute path -> first-seen kind
	presets  []presetRef

	steps   []*stepFrame
	enums   []*enumFrame
	restore map[int]func()

	ctx *scope.Context
}

type presetRef struct {
	Path string
	Kind ast.InputKind
	Node *ast.Node
}

type stepFrame struct {
	node          *ast.Node
	inputCount    int
	optionalCount int
}

type enumFrame struct {
	node   *ast.Node
	values map[string]bool
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{
		cache:    expr.NewCache(),
		declared: map[string]ast.InputKind{},
		restore:  map[int]func(){},
		ctx:      scope.New(),
	}
}

// Validate walks root (and, via Call/Exec/Source, everything reachable
// from it) and returns the diagnostics collected.
func Validate(root *ast.Node, s *script.Script, resolver walker.Resolver) []Diagnostic {
	v := New()
	w := walker.New(resolver, v)
	_ = w.Walk(root, s)
	v.finish()
	return v.diags
}

func (v *Validator) add(n *ast.Node, code Code, message, detail string) {
	v.diags = append(v.diags, Diagnostic{
		Code: code, Path: n.Loc.Path, Line: n.Loc.Line, Col: n.Loc.Col,
		Message: message, Detail: detail,
	})
}

// VisitAny implements ast.Visitor.
func (v *Validator) VisitAny(n *ast.Node) (ast.VisitResult, error) {
	switch n.Tag {
	case ast.TagBlock:
		if n.Block.Kind == ast.Step {
			v.steps = append(v.steps, &stepFrame{node: n})
		}
	case ast.TagVariable:
		v.visitVariable(n)
	case ast.TagCondition:
		v.checkCondition(n)
	case ast.TagPreset:
		v.presets = append(v.presets, presetRef{Path: n.Preset.Path, Kind: n.Preset.Kind, Node: n})
	case ast.TagInput:
		if n.Input.Kind == ast.OptionInput {
			return v.visitOption(n), nil
		}
		return v.visitDeclaredInput(n), nil
	}
	return ast.Continue, nil
}

// PostVisitAny implements ast.Visitor, undoing whatever scope or
// enum-frame state VisitAny pushed for n.
func (v *Validator) PostVisitAny(n *ast.Node) error {
	if n.Tag == ast.TagBlock && n.Block.Kind == ast.Step {
		v.popStep()
	}
	if restore, ok := v.restore[n.ID]; ok {
		restore()
		delete(v.restore, n.ID)
	}
	if n.Tag == ast.TagInput && (n.Input.Kind == ast.EnumInput || n.Input.Kind == ast.ListInput) {
		if f := v.currentEnumFrame(); f != nil && f.node == n {
			v.enums = v.enums[:len(v.enums)-1]
		}
	}
	return nil
}

func (v *Validator) checkCondition(n *ast.Node) {
	rpn, err := v.cache.Parse(n.Condition.Expression)
	if err != nil {
		v.add(n, ExprEvalError, "condition parse failed", err.Error())
		return
	}
	unresolved := false
	resolver := func(name string) (value.Value, bool) {
		if val, ok := v.ctx.GetValue(name); ok {
			return val, true
		}
		if kind, ok := v.declared[name]; ok {
			return placeholderFor(kind), true
		}
		unresolved = true
		return value.NullValue, false
	}
	_, err = expr.Eval(rpn, resolver)
	if unresolved {
		v.add(n, ExprUnresolvedVariable, "condition references an undeclared variable", n.Condition.Expression)
		return
	}
	if err != nil {
		v.add(n, ExprEvalError, "condition evaluation failed", err.Error())
	}
}

// visitVariable registers a declared variable's path in v.ctx so later
// conditions can resolve it (spec.md invariant 8 permits expressions to
// reference "declared-input paths or variables set before evaluation").
// Unlike the Controller's visitVariable, a failed interpolation (e.g. a
// forward reference) isn't fatal here: the raw literal is stored instead,
// since the validator only needs a stand-in value, not the true one.
func (v *Validator) visitVariable(n *ast.Node) {
	raw, err := n.Variable.Value.AsString()
	if err != nil {
		v.ctx.PutValue(n.Variable.Path, value.NewString(""), scope.LocalVar)
		return
	}
	interpolated, err := v.ctx.Interpolate(raw)
	if err != nil {
		interpolated = raw
	}
	v.ctx.PutValue(n.Variable.Path, value.NewString(interpolated), scope.LocalVar)
}

func placeholderFor(kind ast.InputKind) value.Value {
	if kind == ast.BooleanInput {
		return value.NewBool(false)
	}
	return value.NewString("")
}

func (v *Validator) visitOption(n *ast.Node) ast.VisitResult {
	if f := v.currentEnumFrame(); f != nil {
		if f.values[n.Input.OptionVal] {
			v.add(n, OptionValueAlreadyDeclared, "duplicate option value", n.Input.OptionVal)
		}
		f.values[n.Input.OptionVal] = true
	}
	restore := v.ctx.PushOptionValue(value.NewString(n.Input.OptionVal))
	v.restore[n.ID] = restore
	return ast.Continue
}

func (v *Validator) currentEnumFrame() *enumFrame {
	if len(v.enums) == 0 {
		return nil
	}
	return v.enums[len(v.enums)-1]
}

func (v *Validator) visitDeclaredInput(n *ast.Node) ast.VisitResult {
	if len(v.steps) == 0 {
		v.add(n, InputNotInStep, "input declared outside any step", n.Input.ID)
	}

	for _, s := range v.steps {
		s.inputCount++
		if n.Input.Optional {
			s.optionalCount++
		}
	}

	if n.Input.Optional && !n.Input.HasDefault {
		v.add(n, InputOptionalNoDefault, "optional input has no default", n.Input.ID)
	}

	current := v.ctx.Current()
	child := current.GetOrCreate(n.Input.ID, n.Input.Global)
	absPath := child.AbsolutePath()

	if prevKind, ok := v.declared[absPath]; ok {
		if prevKind != n.Input.Kind {
			v.add(n, InputTypeMismatch, "input kind disagrees with an earlier declaration", absPath)
		} else {
			v.add(n, InputAlreadyDeclared, "input already declared", absPath)
		}
	} else {
		v.declared[absPath] = n.Input.Kind
	}

	if n.Input.Kind == ast.EnumInput || n.Input.Kind == ast.ListInput {
		v.enums = append(v.enums, &enumFrame{node: n, values: map[string]bool{}})
		if len(n.Input.Options) == 0 {
			v.add(n, OptionSetEmpty, "enum/list input declares no options", n.Input.ID)
		}
	}

	v.restore[n.ID] = v.ctx.PushScope(child)
	return ast.Continue
}

func (v *Validator) popStep() {
	f := v.steps[len(v.steps)-1]
	v.steps = v.steps[:len(v.steps)-1]
	if f.inputCount == 0 {
		v.add(f.node, StepNoInput, "step has no declared inputs", "")
		return
	}
	declaredOptional, _ := f.node.Attr("optional")
	stepOptional := declaredOptional == "true"
	allOptional := f.optionalCount == f.inputCount
	if stepOptional && !allOptional {
		v.add(f.node, StepDeclaredOptional, "step declared optional but contains a required input", "")
	}
	if !stepOptional && allOptional {
		v.add(f.node, StepNotDeclaredOptional, "step contains only optional inputs but is not declared optional", "")
	}
}

// finish runs the checks that need every declared input and preset
// collected first (spec.md §4.7 PRESET_*).
func (v *Validator) finish() {
	for _, p := range v.presets {
		kind, ok := v.declared[p.Path]
		if !ok {
			v.add(p.Node, PresetUnresolved, "preset path does not match any declared input", p.Path)
			continue
		}
		if kind != p.Kind {
			v.add(p.Node, PresetTypeMismatch, "preset kind disagrees with the declared input", p.Path)
		}
	}
}
