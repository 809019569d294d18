package expr

import (
	"testing"

	"github.com/arclang/archetype/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexSkipsWhitespace(t *testing.T) {
	toks, err := Lex(`  true   &&  false `)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, KindBool, toks[0].Kind)
	assert.Equal(t, KindAnd, toks[1].Kind)
	assert.Equal(t, KindBool, toks[2].Kind)
}

func TestLexArrayLiteral(t *testing.T) {
	toks, err := Lex(`['y', 'z']`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, []string{"y", "z"}, toks[0].Array)
}

func TestLexVarWithSiblingPrefix(t *testing.T) {
	toks, err := Lex(`${~name}`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, KindVar, toks[0].Kind)
	assert.Equal(t, "~name", toks[0].Text)
}

func TestLexUnrecognizedCharacterIsFormatError(t *testing.T) {
	_, err := Lex(`@@@`)
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestParseSpecExample(t *testing.T) {
	rpn, err := Parse(`!(${a} == 'x') || ${b} contains ['y']`)
	require.NoError(t, err)

	kinds := make([]Kind, len(rpn))
	for i, tok := range rpn {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{
		KindVar, KindString, KindEq, KindNot,
		KindVar, KindArray, KindContains, KindOr,
	}, kinds)
}

func TestParseIsIdempotent(t *testing.T) {
	src := `!(${a} == 'x') || ${b} contains ['y']`
	first, err := Parse(src)
	require.NoError(t, err)
	second, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseUnmatchedParenIsFormatError(t *testing.T) {
	_, err := Parse(`(${a} == 'x'`)
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestEvalSpecExample(t *testing.T) {
	rpn, err := Parse(`!(${a} == 'x') || ${b} contains ['y']`)
	require.NoError(t, err)

	resolver := func(name string) (value.Value, bool) {
		switch name {
		case "a":
			return value.NewString("x"), true
		case "b":
			return value.NewStringList([]string{"y", "z"}), true
		}
		return value.NullValue, false
	}

	result, err := Eval(rpn, resolver)
	require.NoError(t, err)
	b, err := result.AsBool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestEvalUnresolvedVariable(t *testing.T) {
	rpn, err := Parse(`${x} contains 'y'`)
	require.NoError(t, err)

	resolver := func(string) (value.Value, bool) { return value.NullValue, false }
	_, err = Eval(rpn, resolver)
	require.Error(t, err)
	var uv *UnresolvedVariableError
	assert.ErrorAs(t, err, &uv)
	assert.Equal(t, "x", uv.Name)
}

func TestEvalEqualityAndNegation(t *testing.T) {
	rpn, err := Parse(`!(${flag} == true)`)
	require.NoError(t, err)
	resolver := func(string) (value.Value, bool) { return value.NewBool(true), true }
	result, err := Eval(rpn, resolver)
	require.NoError(t, err)
	b, _ := result.AsBool()
	assert.False(t, b)
}

func TestCacheMemoizes(t *testing.T) {
	c := NewCache()
	src := `${a} == 'x'`
	first, err := c.Parse(src)
	require.NoError(t, err)
	second, err := c.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIsExpressionBacktick(t *testing.T) {
	assert.True(t, IsExpression("`${a} == 'x'`"))
	assert.False(t, IsExpression("plain text"))
}

func TestUnwrapAutoQuotesBareIdentifiers(t *testing.T) {
	out := Unwrap("#{bareName && ${already}}")
	assert.Equal(t, "${bareName} && ${already}", out)
}

func TestUnwrapLeavesReservedWordsAlone(t *testing.T) {
	out := Unwrap("#{flag && true}")
	assert.Equal(t, "${flag} && true", out)
}

func TestUnwrapBacktick(t *testing.T) {
	assert.Equal(t, "${a} == 'x'", Unwrap("`${a} == 'x'`"))
}
