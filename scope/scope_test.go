package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateNested(t *testing.T) {
	root := NewRoot()
	s := root.GetOrCreate("project.module", false)
	assert.Equal(t, "project.module", s.AbsolutePath())
	assert.Equal(t, "module", s.Segment())
	assert.Same(t, root, s.Parent().Parent())
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	root := NewRoot()
	a := root.GetOrCreate("x.y", false)
	b := root.GetOrCreate("x.y", false)
	assert.Same(t, a, b)
}

func TestGetOrCreateGlobalAttachesAtRoot(t *testing.T) {
	root := NewRoot()
	nested := root.GetOrCreate("project.module", false)
	global := nested.GetOrCreate("shared", true)
	assert.Equal(t, "shared", global.AbsolutePath())
	assert.Same(t, root, global.Parent())
}

func TestRootAbsolutePathIsEmpty(t *testing.T) {
	root := NewRoot()
	assert.Equal(t, "", root.AbsolutePath())
	assert.Same(t, root, root.Root())
}
