package permute

import (
	"strconv"
	"strings"

	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/value"
	"github.com/arclang/archetype/walker"
)

// InputTree is the pruning-iteration variant of the permutation engine
// (spec.md §4.9): a flat sequence of per-input NodeIndex cursors — the
// same collection pass as the Engine feeds it, but with Preset-matched
// inputs pruned or pinned before iteration starts, and an odometer that
// advances the deepest (last-declared) cursor first.
type InputTree struct {
	nodes []*treeNode
	pos   int
	total int
}

// treeNode is one DeclaredInput's NodeIndex: a path, its candidate value
// set, and a cursor cycling over it.
type treeNode struct {
	path   string
	values []value.Value
	idx    int
}

// BuildInputTree walks root once to collect every DeclaredInput's
// candidate set (identical to Engine's first pass) and once more to
// collect Preset declarations, then prunes: a Preset whose path names a
// Boolean or Enum input pins that input to the preset's value alone
// (siblings shadowed); a Preset on any other kind removes that input from
// the tree entirely (spec.md §4.9 "a matching boolean/enum child is kept;
// other kinds are removed").
func BuildInputTree(root *ast.Node, resolver walker.Resolver) (*InputTree, error) {
	candidates, err := collectCandidates(root, resolver)
	if err != nil {
		return nil, err
	}
	presets, err := collectPresets(root, resolver)
	if err != nil {
		return nil, err
	}

	nodes := make([]*treeNode, 0, len(candidates))
	for _, c := range candidates {
		preset, pinned := presets[c.path]
		if !pinned {
			nodes = append(nodes, &treeNode{path: c.path, values: c.values})
			continue
		}
		if c.kind == ast.BooleanInput || c.kind == ast.EnumInput {
			nodes = append(nodes, &treeNode{path: c.path, values: []value.Value{preset.Value}})
		}
		// List/Text presets: the input is pruned from the tree.
	}

	total := 1
	for _, n := range nodes {
		total *= len(n.values)
	}
	return &InputTree{nodes: nodes, total: total}, nil
}

// HasNext reports whether another combination remains.
func (t *InputTree) HasNext() bool {
	return t.pos < t.total
}

// Next yields the current combination as a path→rendered-string map, then
// advances the deepest cursor first, carrying over into shallower cursors
// as each completes a full cycle (spec.md §4.9 "the tree advances its
// deepest index first, carrying over when an index completes").
func (t *InputTree) Next() (map[string]string, bool) {
	if !t.HasNext() {
		return nil, false
	}
	out := make(map[string]string, len(t.nodes))
	for _, n := range t.nodes {
		out[n.path] = renderValue(n.values[n.idx])
	}
	t.pos++
	t.advance()
	return out, true
}

func (t *InputTree) advance() {
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		n.idx++
		if n.idx < len(n.values) {
			return
		}
		n.idx = 0
	}
}

func renderValue(v value.Value) string {
	switch v.Type() {
	case value.Bool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case value.Int:
		n, _ := v.AsInt()
		return strconv.Itoa(n)
	case value.StringList:
		xs, _ := v.AsList()
		return strings.Join(xs, ",")
	default:
		s, _ := v.AsString()
		return s
	}
}

// presetCollector gathers every Preset declaration reachable from root,
// keyed by its declared path (PresetPayload.Path is already the absolute
// dotted path the controller writes to — spec.md §4.4).
type presetCollector struct {
	presets map[string]*ast.PresetPayload
}

func collectPresets(root *ast.Node, resolver walker.Resolver) (map[string]*ast.PresetPayload, error) {
	c := &presetCollector{presets: map[string]*ast.PresetPayload{}}
	w := walker.New(resolver, c)
	if err := w.Walk(root, nil); err != nil {
		return nil, err
	}
	return c.presets, nil
}

func (c *presetCollector) VisitAny(n *ast.Node) (ast.VisitResult, error) {
	if n.Tag == ast.TagPreset {
		c.presets[n.Preset.Path] = n.Preset
	}
	return ast.Continue, nil
}

func (c *presetCollector) PostVisitAny(*ast.Node) error { return nil }
