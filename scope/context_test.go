package scope

import (
	"testing"

	"github.com/arclang/archetype/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutValuePrecedence(t *testing.T) {
	c := New()
	c.PutValue("name", value.NewString("default"), Default)
	c.PutValue("name", value.NewString("local"), LocalVar)
	v, ok := c.GetValue("name")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "default", s, "LocalVar must not override a Default entry")

	c.PutValue("name", value.NewString("user"), User)
	v, _ = c.GetValue("name")
	s, _ = v.AsString()
	assert.Equal(t, "user", s, "User outranks Default")

	c.PutValue("name", value.NewString("attempt-2"), User)
	v, _ = c.GetValue("name")
	s, _ = v.AsString()
	assert.Equal(t, "attempt-2", s, "equal-precedence writes still take effect")

	c.PutValue("name", value.NewString("preset"), Preset)
	v, _ = c.GetValue("name")
	s, _ = v.AsString()
	assert.Equal(t, "preset", s, "Preset outranks User")
}

func TestGetValueWalksScopeChain(t *testing.T) {
	c := New()
	module := c.root.GetOrCreate("module", false)
	restore := c.PushScope(module)
	defer restore()

	c.PutValue("module.flavor", value.NewString("vanilla"), User)

	v, ok := c.GetValue("flavor")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "vanilla", s)
}

func TestGetValueFallsBackToBarePath(t *testing.T) {
	c := New()
	nested := c.root.GetOrCreate("a.b", false)
	restore := c.PushScope(nested)
	defer restore()

	c.PutValue("shared", value.NewString("global"), Preset)

	v, ok := c.GetValue("shared")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "global", s)
}

func TestGetValueTildeLooksInParentScope(t *testing.T) {
	c := New()
	parent := c.root.GetOrCreate("parent", false)
	child := parent.GetOrCreate("child", false)

	restoreParent := c.PushScope(parent)
	c.PutValue("parent.sibling", value.NewString("from-parent"), User)
	restoreParent()

	restoreChild := c.PushScope(child)
	defer restoreChild()

	v, ok := c.GetValue("~sibling")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "from-parent", s)
}

func TestInterpolateSubstitutes(t *testing.T) {
	c := New()
	c.PutValue("fruit", value.NewString("berries"), User)

	out, err := c.Interpolate("pick some ${fruit}")
	require.NoError(t, err)
	assert.Equal(t, "pick some berries", out)
}

func TestInterpolateUnresolvedReturnsError(t *testing.T) {
	c := New()
	_, err := c.Interpolate("use ${missing}")
	require.Error(t, err)
	var target *UnresolvedVariableError
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, "missing", target.Name)
}

func TestPushScopeRestoresOnCall(t *testing.T) {
	c := New()
	child := c.root.GetOrCreate("child", false)
	restore := c.PushScope(child)
	assert.Same(t, child, c.Current())
	restore()
	assert.Same(t, c.root, c.Current())
}

func TestPushOptionValueRestores(t *testing.T) {
	c := New()
	_, ok := c.OptionValue()
	assert.False(t, ok)

	restore := c.PushOptionValue(value.NewString("berries"))
	v, ok := c.OptionValue()
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "berries", s)

	restore()
	_, ok = c.OptionValue()
	assert.False(t, ok)
}

func TestUserValuesAndAllValues(t *testing.T) {
	c := New()
	c.PutValue("fruit", value.NewString("berries"), User)
	c.PutValue("frosting", value.NewBool(true), Preset)
	c.PutValue("comment", value.NewString(""), Default)

	user := c.UserValues()
	assert.Len(t, user, 1)
	s, _ := user["fruit"].AsString()
	assert.Equal(t, "berries", s)

	all := c.AllValues()
	assert.Len(t, all, 3)
}

func TestCWDStack(t *testing.T) {
	c := New()
	assert.Equal(t, "", c.CWD())
	pop := c.PushCWD("/a")
	assert.Equal(t, "/a", c.CWD())
	pop2 := c.PushCWD("/a/b")
	assert.Equal(t, "/a/b", c.CWD())
	pop2()
	assert.Equal(t, "/a", c.CWD())
	pop()
	assert.Equal(t, "", c.CWD())
}
