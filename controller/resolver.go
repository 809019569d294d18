// Package controller implements the execution-time ast.Visitor that
// drives inputs, resolves variables, evaluates conditions and enforces
// scoping (spec.md §4.6).
package controller

import (
	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/value"
)

// InputResolver produces a value for a DeclaredInput, given the node, the
// scope it was just pushed into, and the run's Context (spec.md §6
// "InputResolver: prompt(DeclaredInput, Scope, Context) -> Value").
type InputResolver interface {
	Resolve(n *ast.Node, s *scope.Scope, ctx *scope.Context) (value.Value, error)
}

// DefaultResolver always answers with the input's declared default,
// satisfying spec.md §8's "Executing with the InputResolver implementation
// that always returns the declared default succeeds for every script
// whose inputs all declare a default."
type DefaultResolver struct{}

func (DefaultResolver) Resolve(n *ast.Node, _ *scope.Scope, _ *scope.Context) (value.Value, error) {
	if !n.Input.HasDefault {
		return value.NullValue, &UnresolvedInputError{Path: n.Input.ID}
	}
	return n.Input.Default, nil
}
