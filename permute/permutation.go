// Package permute implements the permutation engine (spec.md §4.8): given
// a script, it enumerates the (path→value) maps a complete, successful
// user interaction could produce, bounded by a configurable cap. Grounded
// on the teacher's "collect candidates, then iterate" shape
// (dsl/call_matcher.go, dsl/dataflow_executor.go): collect first, iterate
// second, rather than generating candidates lazily inside the walk.
package permute

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/controller"
	"github.com/arclang/archetype/scope"
	"github.com/arclang/archetype/value"
	"github.com/arclang/archetype/walker"
)

// DefaultCap is the default bound on the number of permutations returned
// (spec.md §4.8 "bounded by a configurable maximum (default 200)").
const DefaultCap = 200

// Permutation is one observed (path→value) assignment, restricted to the
// values actually written with scope.User provenance during a simulated
// run (spec.md §4.8 step 3 "deduplicate by the observed user-kind values
// only").
type Permutation map[string]value.Value

// Engine enumerates permutations of a script.
type Engine struct {
	Cap int
}

// New creates an Engine with the default cap.
func New() *Engine {
	return &Engine{Cap: DefaultCap}
}

type candidate struct {
	path   string
	kind   ast.InputKind
	values []value.Value
}

// Run enumerates permutations of root via resolver (used to expand
// Call/Exec/Source invocations, same as the controller).
func (e *Engine) Run(root *ast.Node, resolver walker.Resolver) ([]Permutation, error) {
	limit := e.Cap
	if limit <= 0 {
		limit = DefaultCap
	}

	candidates, err := collectCandidates(root, resolver)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []Permutation

	indices := make([]int, len(candidates))
	for {
		if len(out) >= limit {
			break
		}

		combo := map[string]value.Value{}
		for i, c := range candidates {
			combo[c.path] = c.values[indices[i]]
		}

		perm, ok, err := simulate(root, resolver, combo)
		if err != nil {
			return nil, err
		}
		if ok {
			key := canonicalKey(perm)
			if !seen[key] {
				seen[key] = true
				out = append(out, perm)
			}
		}

		if !advance(indices, candidates) {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return canonicalKey(out[i]) < canonicalKey(out[j])
	})
	return out, nil
}

// advance increments the odometer of per-candidate indices, carrying over
// completed positions (spec.md §4.9 describes the same "advance deepest
// index first, carry over when complete" stepping for the tree variant;
// the flat Cartesian product here follows the identical rule).
func advance(indices []int, candidates []candidate) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(candidates[i].values) {
			return true
		}
		indices[i] = 0
	}
	return false
}

func canonicalKey(p Permutation) string {
	paths := make([]string, 0, len(p))
	for k := range p {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	var b strings.Builder
	for _, k := range paths {
		fmt.Fprintf(&b, "%s=%s;", k, canonicalValue(p[k]))
	}
	return b.String()
}

func canonicalValue(v value.Value) string {
	switch v.Type() {
	case value.Bool:
		b, _ := v.AsBool()
		return fmt.Sprintf("bool:%v", b)
	case value.Int:
		n, _ := v.AsInt()
		return fmt.Sprintf("int:%d", n)
	case value.StringList:
		xs, _ := v.AsList()
		return "list:" + strings.Join(xs, ",")
	case value.String:
		s, _ := v.AsString()
		return "string:" + s
	default:
		return "null"
	}
}

// collectingVisitor is the first-pass visitor: it walks the whole tree
// without control-flow filtering (Condition nodes are never evaluated,
// every branch is descended into) and records every DeclaredInput's
// absolute path and candidate value set (spec.md §4.8 step 1).
type collectingVisitor struct {
	ctx     *scope.Context
	restore map[int]func()
	order   []string
	byPath  map[string]*candidate
}

func collectCandidates(root *ast.Node, resolver walker.Resolver) ([]candidate, error) {
	v := &collectingVisitor{
		ctx:     scope.New(),
		restore: map[int]func(){},
		byPath:  map[string]*candidate{},
	}
	w := walker.New(resolver, v)
	if err := w.Walk(root, nil); err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(v.order))
	for _, p := range v.order {
		out = append(out, *v.byPath[p])
	}
	return out, nil
}

func (v *collectingVisitor) VisitAny(n *ast.Node) (ast.VisitResult, error) {
	if n.Tag != ast.TagInput || n.Input.Kind == ast.OptionInput {
		return ast.Continue, nil
	}
	current := v.ctx.Current()
	child := current.GetOrCreate(n.Input.ID, n.Input.Global)
	absPath := child.AbsolutePath()

	if _, ok := v.byPath[absPath]; !ok {
		v.byPath[absPath] = &candidate{path: absPath, kind: n.Input.Kind, values: candidateValues(n)}
		v.order = append(v.order, absPath)
	}

	v.restore[n.ID] = v.ctx.PushScope(child)
	return ast.Continue, nil
}

func (v *collectingVisitor) PostVisitAny(n *ast.Node) error {
	if restore, ok := v.restore[n.ID]; ok {
		restore()
		delete(v.restore, n.ID)
	}
	return nil
}

// candidateValues computes the reduced candidate set for one declared
// input (spec.md §4.8 step 1).
func candidateValues(n *ast.Node) []value.Value {
	switch n.Input.Kind {
	case ast.BooleanInput:
		return []value.Value{value.NewBool(false), value.NewBool(true)}
	case ast.EnumInput:
		out := make([]value.Value, 0, len(n.Input.Options))
		for _, opt := range n.Input.Options {
			out = append(out, value.NewString(opt.Value))
		}
		return out
	case ast.ListInput:
		return listCandidates(n)
	default: // TextInput
		if n.Input.HasDefault {
			return []value.Value{n.Input.Default}
		}
		return []value.Value{value.NewString("xxx")}
	}
}

// listCandidates returns the declared default (if any), the empty list,
// each singleton option, and the full list — the reduced set spec.md
// §4.8 step 1 prescribes to bound the otherwise exponential power set.
func listCandidates(n *ast.Node) []value.Value {
	seen := map[string]bool{}
	var out []value.Value
	add := func(v value.Value) {
		key := canonicalValue(v)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	}

	if n.Input.HasDefault {
		add(n.Input.Default)
	}
	add(value.NewStringList(nil))

	all := make([]string, 0, len(n.Input.Options))
	for _, opt := range n.Input.Options {
		add(value.NewStringList([]string{opt.Value}))
		all = append(all, opt.Value)
	}
	add(value.NewStringList(all))

	return out
}

// comboResolver answers every DeclaredInput from a fixed combination,
// falling back to the declared default for any path the first pass
// somehow missed (defensive; every DeclaredInput the controller visits
// was also visited during collection).
type comboResolver struct {
	combo map[string]value.Value
}

func (r comboResolver) Resolve(n *ast.Node, s *scope.Scope, ctx *scope.Context) (value.Value, error) {
	if v, ok := r.combo[s.AbsolutePath()]; ok {
		return v, nil
	}
	if n.Input.HasDefault {
		return n.Input.Default, nil
	}
	return value.NullValue, &controller.UnresolvedInputError{Path: s.AbsolutePath()}
}

// simulate runs the controller over root with a resolver fixed to combo,
// discarding runs that raise InvalidOptionError (spec.md §4.8 step 2,
// §7 "InvalidOption ... non-fatal inside the permutation engine").
func simulate(root *ast.Node, resolver walker.Resolver, combo map[string]value.Value) (Permutation, bool, error) {
	ctx := scope.New()
	ctrl := controller.New(ctx, comboResolver{combo: combo})
	w := walker.New(resolver, ctrl)

	if err := w.Walk(root, nil); err != nil {
		var invalid *controller.InvalidOptionError
		if errors.As(err, &invalid) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return Permutation(ctx.UserValues()), true, nil
}
