package controller

import (
	"testing"

	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/script"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/value"
	"github.com/arclang/archetype/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopScriptResolver struct{}

func (noopScriptResolver) ResolveScript(string) (*script.Script, error) { return nil, nil }

func buildCakeInputs(ids *ast.IDGenerator) *ast.Node {
	loc := ast.Location{Path: "cake.xml", Line: 1, Col: 1}

	berryOrganic := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.BooleanInput, ID: "organic", HasDefault: true, Default: value.NewBool(false)}).
		Build()
	berryType := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{
			Kind: ast.EnumInput, ID: "berry-type", HasDefault: true, Default: value.NewString("raspberry"),
			Options: []ast.OptionSpec{{Value: "raspberry"}, {Value: "strawberry"}},
		}).
		WithChildren(
			ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "raspberry"}).Build(),
			ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "strawberry"}).Build(),
		).
		Build()

	berriesOption := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "berries"}).
		WithChildren(berryType, berryOrganic).
		Build()

	fareTrade := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.BooleanInput, ID: "fare-trade", HasDefault: true, Default: value.NewBool(false)}).
		Build()
	tropicalOption := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "tropical"}).
		WithChildren(fareTrade).
		Build()

	fruit := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{
			Kind: ast.EnumInput, ID: "fruit", HasDefault: true, Default: value.NewString("berries"),
			Options: []ast.OptionSpec{{Value: "berries"}, {Value: "tropical"}},
		}).
		WithChildren(berriesOption, tropicalOption).
		Build()

	frosting := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.BooleanInput, ID: "frosting", HasDefault: true, Default: value.NewBool(false)}).
		Build()
	comment := ast.NewNodeBuilder(ids, "cake.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.TextInput, ID: "comment", HasDefault: true, Optional: true, Default: value.NewString("")}).
		Build()

	inputs := ast.NewBlock(ids, "cake.xml", loc, ast.Inputs, "", fruit, frosting, comment)
	step := ast.NewBlock(ids, "cake.xml", loc, ast.Step, "", inputs)
	return ast.NewBlock(ids, "cake.xml", loc, ast.Script, "cake.xml", step)
}

func TestDefaultResolverProducesCakeDefaults(t *testing.T) {
	ids := ast.NewIDGenerator()
	root := buildCakeInputs(ids)

	ctx := scope.New()
	ctrl := New(ctx, DefaultResolver{})
	w := walker.New(noopScriptResolver{}, ctrl)
	require.NoError(t, w.Walk(root, nil))

	fruit, ok := ctx.GetValue("fruit")
	require.True(t, ok)
	s, _ := fruit.AsString()
	assert.Equal(t, "berries", s)

	berryType, ok := ctx.GetValue("fruit.berry-type")
	require.True(t, ok)
	s, _ = berryType.AsString()
	assert.Equal(t, "raspberry", s)

	organic, ok := ctx.GetValue("fruit.organic")
	require.True(t, ok)
	b, _ := organic.AsBool()
	assert.False(t, b)

	frosting, ok := ctx.GetValue("frosting")
	require.True(t, ok)
	b, _ = frosting.AsBool()
	assert.False(t, b)

	comment, ok := ctx.GetValue("comment")
	require.True(t, ok)
	s, _ = comment.AsString()
	assert.Equal(t, "", s)
}

func TestPresetOverridesResolver(t *testing.T) {
	ids := ast.NewIDGenerator()
	loc := ast.Location{Path: "s.xml", Line: 1, Col: 1}

	opt := ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.BooleanInput, ID: "opt", HasDefault: true, Default: value.NewBool(false)}).
		Build()
	preset := ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagPreset).
		WithPreset(&ast.PresetPayload{Path: "opt", Kind: ast.BooleanInput, Value: value.NewBool(true)}).
		Build()
	root := ast.NewBlock(ids, "s.xml", loc, ast.Script, "s.xml", preset, opt)

	ctx := scope.New()
	ctrl := New(ctx, panicResolver{t})
	w := walker.New(noopScriptResolver{}, ctrl)
	require.NoError(t, w.Walk(root, nil))

	v, ok := ctx.GetValue("opt")
	require.True(t, ok)
	b, _ := v.AsBool()
	assert.True(t, b)
}

type panicResolver struct{ t *testing.T }

func (p panicResolver) Resolve(*ast.Node, *scope.Scope, *scope.Context) (value.Value, error) {
	p.t.Fatal("resolver should not be invoked when a preset already satisfies the input")
	return value.NullValue, nil
}

func TestConditionFalseSkipsSubtree(t *testing.T) {
	ids := ast.NewIDGenerator()
	loc := ast.Location{Path: "s.xml", Line: 1, Col: 1}

	guardedInput := ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{Kind: ast.BooleanInput, ID: "hidden", HasDefault: true, Default: value.NewBool(false)}).
		Build()
	cond := ast.NewCondition(ids, "s.xml", loc, "${flag} == true", guardedInput)
	root := ast.NewBlock(ids, "s.xml", loc, ast.Script, "s.xml", cond)

	ctx := scope.New()
	ctx.PutValue("flag", value.NewBool(false), scope.User)
	ctrl := New(ctx, DefaultResolver{})
	w := walker.New(noopScriptResolver{}, ctrl)
	require.NoError(t, w.Walk(root, nil))

	_, ok := ctx.GetValue("hidden")
	assert.False(t, ok, "condition false must skip the guarded input entirely")
}

func TestInvalidOptionRejected(t *testing.T) {
	ids := ast.NewIDGenerator()
	loc := ast.Location{Path: "s.xml", Line: 1, Col: 1}

	enumIn := ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagInput).
		WithInput(&ast.InputPayload{
			Kind: ast.EnumInput, ID: "choice", HasDefault: true, Default: value.NewString("a"),
			Options: []ast.OptionSpec{{Value: "a"}, {Value: "b"}},
		}).
		WithChildren(
			ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagInput).WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "a"}).Build(),
			ast.NewNodeBuilder(ids, "s.xml", loc, ast.TagInput).WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: "b"}).Build(),
		).
		Build()
	root := ast.NewBlock(ids, "s.xml", loc, ast.Script, "s.xml", enumIn)

	ctx := scope.New()
	ctrl := New(ctx, fixedResolver{value.NewString("z")})
	w := walker.New(noopScriptResolver{}, ctrl)
	err := w.Walk(root, nil)
	require.Error(t, err)
	var invalid *InvalidOptionError
	assert.ErrorAs(t, err, &invalid)
}

type fixedResolver struct{ v value.Value }

func (f fixedResolver) Resolve(*ast.Node, *scope.Scope, *scope.Context) (value.Value, error) {
	return f.v, nil
}

func TestUnselectedOptionSubtreeIsNotVisited(t *testing.T) {
	ids := ast.NewIDGenerator()
	root := buildCakeInputs(ids)

	ctx := scope.New()
	ctrl := New(ctx, DefaultResolver{})
	w := walker.New(noopScriptResolver{}, ctrl)
	require.NoError(t, w.Walk(root, nil))

	// DefaultResolver resolves fruit to "berries", so the tropical branch
	// (and its nested fare-trade input) must never be entered.
	_, ok := ctx.GetValue("fruit.fare-trade")
	assert.False(t, ok, "the unselected option's subtree must not be visited")
}
