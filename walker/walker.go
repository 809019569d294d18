// Package walker implements the generic depth-first traversal shared by
// the controller, validator and permutation engine: a single recursion
// dispatching to an injected ast.Visitor and expanding invocations
// (spec.md §4.5, §5). It does not push or pop the Context's CWD stack,
// INVOKE_DIR blocks included.
package walker

import (
	"fmt"

	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/script"
)

// Resolver maps an Invocation node to the script it should expand into.
// Exec and Source invocations name another script file; Call invocations
// name a method in the enclosing script (spec.md §4.5).
type Resolver interface {
	ResolveScript(target string) (*script.Script, error)
}

// Walker drives one depth-first pass over an AST, honoring ast.VisitResult
// and expanding Invocation nodes in place at the invocation site (spec.md
// §5 "Ordering").
type Walker struct {
	resolver Resolver
	visitor  ast.Visitor
	visited  map[cycleKey]bool
}

// cycleKey identifies one invocation expansion in flight on the current
// recursion stack. The walker has no Scope of its own (that's the
// controller's concern), so the invocation node's id stands in for
// spec.md §5's "(block, scope)" pair: re-entering the same invocation site
// while its own expansion is still on the stack is exactly a cycle.
type cycleKey struct {
	blockName string
	nodeID    int
}

// New creates a Walker that dispatches to visitor, resolving invocations
// through resolver.
func New(resolver Resolver, visitor ast.Visitor) *Walker {
	return &Walker{resolver: resolver, visitor: visitor, visited: map[cycleKey]bool{}}
}

// Walk traverses n and its subtree. script is the enclosing script (for
// method lookups on Call invocations); it may be nil at the root call if
// n is itself a Script block reached directly.
func (w *Walker) Walk(n *ast.Node, enclosing *script.Script) error {
	_, err := w.walk(n, enclosing)
	return err
}

// walk returns the VisitResult the caller should honor for n's siblings
// (SkipSiblings propagates up one level; Terminate propagates all the way).
func (w *Walker) walk(n *ast.Node, enclosing *script.Script) (ast.VisitResult, error) {
	result, err := w.visitor.VisitAny(n)
	if err != nil {
		return ast.Terminate, err
	}

	switch result {
	case ast.SkipSubtree:
		return ast.Continue, nil
	case ast.SkipSiblings, ast.Terminate:
		return result, nil
	}

	if n.Tag == ast.TagInvocation {
		if res, err := w.expandInvocation(n, enclosing); err != nil || res != ast.Continue {
			return res, err
		}
	}

	for _, child := range n.Children {
		childResult, err := w.walk(child, enclosing)
		if err != nil {
			return ast.Terminate, err
		}
		if childResult == ast.Terminate {
			return ast.Terminate, nil
		}
		if childResult == ast.SkipSiblings {
			break
		}
	}

	if err := w.visitor.PostVisitAny(n); err != nil {
		return ast.Terminate, err
	}
	return ast.Continue, nil
}

// expandInvocation loads (Exec/Source) or looks up (Call) the invocation's
// target and walks its body at the invocation site (spec.md §5 "Invocations
// are expanded in place").
func (w *Walker) expandInvocation(n *ast.Node, enclosing *script.Script) (ast.VisitResult, error) {
	inv := n.Invocation
	var targetScript *script.Script
	var body *ast.Node

	switch inv.Kind {
	case ast.Call:
		if enclosing == nil {
			return ast.Terminate, &InvocationError{Target: inv.Target, Cause: fmt.Errorf("call outside any script")}
		}
		m, ok := enclosing.Methods[inv.Target]
		if !ok {
			return ast.Terminate, &InvocationError{Target: inv.Target, Cause: fmt.Errorf("method %q not found", inv.Target)}
		}
		targetScript = enclosing
		body = m
	case ast.Exec, ast.Source:
		s, err := w.resolver.ResolveScript(inv.Target)
		if err != nil {
			return ast.Terminate, &InvocationError{Target: inv.Target, Cause: err}
		}
		targetScript = s
		body = s.Root
	}

	key := cycleKey{blockName: blockNameOf(targetScript, body), nodeID: n.ID}
	if w.visited[key] {
		return ast.Terminate, &CycleDetectedError{Target: inv.Target}
	}
	w.visited[key] = true
	defer delete(w.visited, key)

	res, err := w.walk(body, targetScript)
	return res, err
}

func blockNameOf(s *script.Script, body *ast.Node) string {
	if body != nil && body.Block != nil && body.Block.Name != "" {
		return body.Block.Name
	}
	if s != nil {
		return s.Path
	}
	return ""
}
