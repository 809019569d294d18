package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"basic", "a, b ,c", []string{"a", "b", "c"}},
		{"drops empties", "a,,b", []string{"a", "b"}},
		{"none literal", "none", []string{}},
		{"empty string", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringList(tt.raw).AsList()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "YES", "y", "On"} {
		b, ok := ParseBool(raw)
		assert.True(t, ok)
		assert.True(t, b)
	}
	for _, raw := range []string{"false", "NO", "n", "Off"} {
		b, ok := ParseBool(raw)
		assert.True(t, ok)
		assert.False(t, b)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	b, err := NewBool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	n, err := NewInt(42).AsInt()
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	s, err := NewString("hi").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	xs, err := NewStringList([]string{"a", "b"}).AsList()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, xs)
}

func TestAsBoolCoercionError(t *testing.T) {
	_, err := NewInt(1).AsBool()
	require.Error(t, err)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewInt(1), NewInt(1)))
	assert.False(t, Equal(NewInt(1), NewString("1")))
	assert.True(t, Equal(NewString("a"), NewStringList([]string{"a"})))
	assert.True(t, Equal(NewStringList([]string{"a"}), NewString("a")))
	assert.False(t, Equal(NewStringList([]string{"a", "b"}), NewString("a")))
}

func TestContains(t *testing.T) {
	list := NewStringList([]string{"a", "b", "c"})

	ok, err := Contains(list, NewString("b"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Contains(list, NewStringList([]string{"a", "c"}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Contains(list, NewStringList([]string{"a", "z"}))
	require.NoError(t, err)
	assert.False(t, ok)
}
