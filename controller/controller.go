package controller

import (
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/expr"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/value"
)

// Controller is the ast.Visitor used during normal execution (spec.md
// §4.6). It mutates a scope.Context as it walks: variables and presets
// populate the value store, conditions prune subtrees, and declared
// inputs create scopes and resolve values through an InputResolver.
type Controller struct {
	ctx      *scope.Context
	cache    *expr.Cache
	resolver InputResolver
	restore  map[int]func()
}

// New creates a Controller operating on ctx, resolving declared inputs
// through resolver.
func New(ctx *scope.Context, resolver InputResolver) *Controller {
	return &Controller{
		ctx:      ctx,
		cache:    expr.NewCache(),
		resolver: resolver,
		restore:  map[int]func(){},
	}
}

func (c *Controller) resolveVar(name string) (value.Value, bool) {
	return c.ctx.GetValue(name)
}

func (c *Controller) evalCondition(expression string) (bool, error) {
	rpn, err := c.cache.Parse(expression)
	if err != nil {
		return false, err
	}
	result, err := expr.Eval(rpn, c.resolveVar)
	if err != nil {
		return false, err
	}
	return result.AsBool()
}

// VisitAny implements ast.Visitor.
func (c *Controller) VisitAny(n *ast.Node) (ast.VisitResult, error) {
	switch n.Tag {
	case ast.TagVariable:
		return c.visitVariable(n)
	case ast.TagPreset:
		return c.visitPreset(n)
	case ast.TagCondition:
		return c.visitCondition(n)
	case ast.TagInput:
		if n.Input.Kind == ast.OptionInput {
			return c.visitOption(n)
		}
		return c.visitDeclaredInput(n)
	default:
		return ast.Continue, nil
	}
}

// PostVisitAny implements ast.Visitor, undoing whatever scope or binding
// changes VisitAny made for n (spec.md §5 "Scope push/pop is... balanced").
func (c *Controller) PostVisitAny(n *ast.Node) error {
	if restore, ok := c.restore[n.ID]; ok {
		restore()
		delete(c.restore, n.ID)
	}
	return nil
}

func (c *Controller) visitVariable(n *ast.Node) (ast.VisitResult, error) {
	raw, err := n.Variable.Value.AsString()
	if err != nil {
		return ast.Terminate, err
	}
	interpolated, err := c.ctx.Interpolate(raw)
	if err != nil {
		return ast.Terminate, err
	}
	c.ctx.PutValue(n.Variable.Path, value.NewString(interpolated), scope.LocalVar)
	return ast.Continue, nil
}

func (c *Controller) visitPreset(n *ast.Node) (ast.VisitResult, error) {
	p := n.Preset
	v := p.Value
	if p.Kind == ast.ListInput {
		v = value.NewStringList(p.Values)
	}
	c.ctx.PutValue(p.Path, v, scope.Preset)
	return ast.Continue, nil
}

func (c *Controller) visitCondition(n *ast.Node) (ast.VisitResult, error) {
	active, err := c.evalCondition(n.Condition.Expression)
	if err != nil {
		return ast.Terminate, err
	}
	if !active {
		return ast.SkipSubtree, nil
	}
	return ast.Continue, nil
}

// visitOption only descends into an Option's subtree when its literal
// value was actually selected by the enclosing Enum/List input — the
// engine only "enters" the branch the user picked, not every declared
// option (spec.md §3 "Option... contributes option-value to the current
// scope only while its subtree is active").
func (c *Controller) visitOption(n *ast.Node) (ast.VisitResult, error) {
	selected, ok := c.ctx.GetValue("")
	if ok {
		switch selected.Type() {
		case value.StringList:
			xs, _ := selected.AsList()
			if !sliceContains(xs, n.Input.OptionVal) {
				return ast.SkipSubtree, nil
			}
		default:
			s, err := selected.AsString()
			if err == nil && s != n.Input.OptionVal {
				return ast.SkipSubtree, nil
			}
		}
	}
	restore := c.ctx.PushOptionValue(value.NewString(n.Input.OptionVal))
	c.restore[n.ID] = restore
	return ast.Continue, nil
}

func sliceContains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// visitDeclaredInput implements spec.md §4.6's five-step DeclaredInput
// algorithm.
func (c *Controller) visitDeclaredInput(n *ast.Node) (ast.VisitResult, error) {
	current := c.ctx.Current()
	child := current.GetOrCreate(n.Input.ID, n.Input.Global)
	absPath := child.AbsolutePath()

	if kind, ok := c.ctx.Kind(absPath); !ok || (kind != scope.Preset && kind != scope.External) {
		v, err := c.resolver.Resolve(n, child, c.ctx)
		if err != nil {
			return ast.Terminate, err
		}
		if s, err := v.AsString(); err == nil {
			if interpolated, ierr := c.ctx.Interpolate(s); ierr == nil {
				v = value.NewString(interpolated)
			}
		}
		if err := c.validateOptions(n, v); err != nil {
			return ast.Terminate, err
		}
		c.ctx.PutValue(absPath, v, scope.User)
	}

	popScope := c.ctx.PushScope(child)
	c.restore[n.ID] = popScope
	return ast.Continue, nil
}

// activeOptionValues returns the OptionVal of every Option child of n
// whose guarding Condition (if any) currently evaluates true (spec.md
// §4.6 "every selected value must be present in the block's options after
// filtering by condition on each option").
func (c *Controller) activeOptionValues(n *ast.Node) ([]string, error) {
	var out []string
	for _, child := range n.Children {
		target := child
		if child.Tag == ast.TagCondition {
			active, err := c.evalCondition(child.Condition.Expression)
			if err != nil {
				return nil, err
			}
			if !active || len(child.Children) == 0 {
				continue
			}
			target = child.Children[0]
		}
		if target.Tag == ast.TagInput && target.Input.Kind == ast.OptionInput {
			out = append(out, target.Input.OptionVal)
		}
	}
	return out, nil
}

func (c *Controller) validateOptions(n *ast.Node, resolved value.Value) error {
	if n.Input.Kind != ast.EnumInput && n.Input.Kind != ast.ListInput {
		return nil
	}
	active, err := c.activeOptionValues(n)
	if err != nil {
		return err
	}
	allowed := map[string]bool{}
	for _, o := range active {
		allowed[o] = true
	}
	switch n.Input.Kind {
	case ast.EnumInput:
		s, err := resolved.AsString()
		if err != nil {
			return err
		}
		if !allowed[s] {
			return &InvalidOptionError{Path: n.Input.ID, Value: s}
		}
	case ast.ListInput:
		xs, err := resolved.AsList()
		if err != nil {
			return err
		}
		for _, x := range xs {
			if !allowed[x] {
				return &InvalidOptionError{Path: n.Input.ID, Value: x}
			}
		}
	}
	return nil
}
