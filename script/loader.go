package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arclang/archetype/ast"
	"github.com/arclang/archetype/value"
)

// Source is the external collaborator that supplies script bytes and
// resolves relative references (spec.md §6 "ScriptSource").
type Source interface {
	Load(path string) ([]byte, error)
	Resolve(baseDir, relPath string) (string, error)
}

// FileSource reads scripts directly off the local filesystem.
type FileSource struct{}

func (FileSource) Load(path string) ([]byte, error) { return os.ReadFile(path) }

func (FileSource) Resolve(baseDir, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return filepath.Clean(relPath), nil
	}
	return filepath.Abs(filepath.Join(baseDir, relPath))
}

// Script is a loaded archetype script: its root AST node plus the
// <methods> block extracted into a name-keyed map (spec.md §4.3).
type Script struct {
	Path    string
	Root    *ast.Node
	Methods map[string]*ast.Node
}

// Loader parses scripts into ASTs and caches them by absolute path
// (spec.md §4.3 "Script identity", §5 "script cache is process-wide").
// Each Loader instance is independently cacheed so tests can use isolated
// loaders (spec.md §9 "Global state... Encapsulate behind a Loader").
type Loader struct {
	source Source
	ids    *ast.IDGenerator

	mu    sync.Mutex
	cache map[string]*Script
}

// New creates a Loader reading scripts through source, using ids to
// assign node identities.
func New(source Source, ids *ast.IDGenerator) *Loader {
	return &Loader{source: source, ids: ids, cache: map[string]*Script{}}
}

// Load parses path (resolved to an absolute, cleaned form) into a Script,
// serving a cached result for a path already loaded (spec.md §5: "last
// writer wins" on a concurrent-load race; this Loader serializes instead,
// which satisfies that relaxed contract too).
func (l *Loader) Load(path string) (*Script, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	abs = filepath.Clean(abs)

	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.cache[abs]; ok {
		return s, nil
	}

	raw, err := l.source.Load(abs)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", abs, err)
	}

	root, err := parseDocument(raw)
	if err != nil {
		return nil, &FormatError{Path: abs, Msg: "invalid XML: " + err.Error()}
	}

	b := &builder{loader: l, path: abs}
	scriptNode, methods := b.buildScript(root)

	s := &Script{Path: abs, Root: scriptNode, Methods: methods}
	l.cache[abs] = s
	return s, nil
}

// builder holds the per-parse state needed to turn one XML document into
// an ast.Node tree.
type builder struct {
	loader *Loader
	path   string
}

func (b *builder) loc(e element) ast.Location {
	return ast.Location{Path: b.path, Line: e.Line, Col: e.Col}
}

// buildScript converts the root <archetype-script> element, extracting
// <methods> into a separate map (spec.md §4.3).
func (b *builder) buildScript(root element) (*ast.Node, map[string]*ast.Node) {
	methods := map[string]*ast.Node{}
	var children []*ast.Node

	for _, child := range root.Children {
		if child.XMLName.Local == "methods" {
			for _, m := range child.Children {
				if m.XMLName.Local != "method" {
					continue
				}
				name, _ := m.attr("name")
				methodNode := b.buildMethod(m, name)
				methods[name] = methodNode
			}
			continue
		}
		if n := b.buildNode(child); n != nil {
			children = append(children, n)
		}
	}

	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(root), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: ast.Script, Name: b.path})
	nb.WithChildren(children...)
	return nb.Build(), methods
}

func (b *builder) buildMethod(e element, name string) *ast.Node {
	blockName := b.path + "#" + name
	var children []*ast.Node
	for _, child := range e.Children {
		if n := b.buildNode(child); n != nil {
			children = append(children, n)
		}
	}
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: ast.Method, Name: blockName})
	nb.WithChildren(children...)
	return nb.Build()
}

// buildNode dispatches one XML element to the right ast.Node shape,
// wrapping the result in a Condition node if an `if` attribute is present
// (spec.md §3 "Condition(expression, then)").
func (b *builder) buildNode(e element) *ast.Node {
	if noopKinds[e.XMLName.Local] {
		return nil
	}

	var n *ast.Node
	switch e.XMLName.Local {
	case "step":
		n = b.buildBlock(e, ast.Step)
	case "inputs":
		n = b.buildBlock(e, ast.Inputs)
	case "presets":
		n = b.buildPresets(e)
	case "variables":
		n = b.buildVariables(e)
	case "output":
		n = b.buildBlock(e, ast.Output)
	case "templates":
		n = b.buildBlock(e, ast.Templates)
	case "template":
		n = b.buildBlock(e, ast.Template)
	case "files":
		n = b.buildBlock(e, ast.Files)
	case "file":
		n = b.buildBlock(e, ast.File)
	case "includes":
		n = b.buildIncludesExcludes(e, ast.Includes, ast.Include)
	case "excludes":
		n = b.buildIncludesExcludes(e, ast.Excludes, ast.Exclude)
	case "transformation":
		n = b.buildBlock(e, ast.Transformation)
	case "model":
		n = b.buildModel(e)
	case "map":
		n = b.buildBlock(e, ast.Map)
	case "invoke-dir":
		n = b.buildBlock(e, ast.InvokeDir)
	case "invoke":
		n = b.buildBlock(e, ast.Invoke)
	case "validations":
		n = b.buildBlock(e, ast.Validations)
	case "validation":
		n = b.buildValidation(e)
	case "boolean", "text", "enum", "list":
		n = b.buildInput(e)
	case "option":
		n = b.buildOption(e)
	case "call":
		n = b.buildInvocation(e, ast.Call)
	case "exec":
		n = b.buildInvocation(e, ast.Exec)
	case "source":
		n = b.buildInvocation(e, ast.Source)
	default:
		n = b.buildBlock(e, ast.Step)
	}

	if n == nil {
		return nil
	}
	if cond, ok := e.attr("if"); ok && cond != "" {
		cb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagCondition)
		cb.WithCondition(&ast.ConditionPayload{Expression: cond})
		cb.WithChild(n)
		return cb.Build()
	}
	return n
}

func (b *builder) childNodes(e element) []*ast.Node {
	var out []*ast.Node
	for _, c := range e.Children {
		if n := b.buildNode(c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (b *builder) buildBlock(e element, kind ast.BlockKind) *ast.Node {
	name, _ := e.attr("name")
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: kind})
	nb.WithAttrs(collectAttrs(e))
	if name != "" {
		nb.WithAttr("name", name)
	}
	nb.WithChildren(b.childNodes(e)...)
	return nb.Build()
}

func (b *builder) buildIncludesExcludes(e element, kind, itemKind ast.BlockKind) *ast.Node {
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: kind})
	var items []*ast.Node
	for _, c := range e.Children {
		ib := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(c), ast.TagBlock)
		ib.WithBlock(&ast.BlockPayload{Kind: itemKind})
		ib.WithAttr("pattern", strings.TrimSpace(c.CharData))
		items = append(items, ib.Build())
	}
	nb.WithChildren(items...)
	return nb.Build()
}

// buildModel collapses bare-text children into VALUE sub-blocks (spec.md
// §4.3 "Under a MODEL, bare text children become VALUE sub-blocks").
func (b *builder) buildModel(e element) *ast.Node {
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: ast.Model})
	var children []*ast.Node
	for _, c := range e.Children {
		if c.XMLName.Local == "value" {
			vb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(c), ast.TagBlock)
			vb.WithBlock(&ast.BlockPayload{Kind: ast.MapValue})
			vb.WithAttr("text", strings.TrimSpace(c.CharData))
			if key, ok := c.attr("key"); ok {
				vb.WithAttr("key", key)
			}
			children = append(children, vb.Build())
			continue
		}
		if n := b.buildNode(c); n != nil {
			children = append(children, n)
		}
	}
	nb.WithChildren(children...)
	return nb.Build()
}

func (b *builder) buildValidation(e element) *ast.Node {
	id, _ := e.attr("id")
	desc, _ := e.attr("description")
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagValidation)
	nb.WithValidation(&ast.ValidationPayload{ID: id, Description: desc})
	var children []*ast.Node
	for _, c := range e.Children {
		if c.XMLName.Local != "regex" {
			continue
		}
		rb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(c), ast.TagBlock)
		rb.WithBlock(&ast.BlockPayload{Kind: ast.Regex})
		rb.WithAttr("pattern", strings.TrimSpace(c.CharData))
		children = append(children, rb.Build())
	}
	nb.WithChildren(children...)
	return nb.Build()
}

var inputKindByElement = map[string]ast.InputKind{
	"boolean": ast.BooleanInput,
	"text":    ast.TextInput,
	"enum":    ast.EnumInput,
	"list":    ast.ListInput,
}

func (b *builder) buildInput(e element) *ast.Node {
	kind := inputKindByElement[e.XMLName.Local]
	id, _ := e.attr("id")
	optional, _ := e.attr("optional")
	global, _ := e.attr("global")
	defRaw, hasDefault := e.attr("default")

	payload := &ast.InputPayload{
		Kind:   kind,
		ID:     id,
		Global: boolAttr(global),
	}
	payload.Optional = boolAttr(optional)
	if hasDefault {
		payload.HasDefault = true
		switch kind {
		case ast.BooleanInput:
			bv, _ := value.ParseBool(defRaw)
			payload.Default = value.NewBool(bv)
		case ast.ListInput:
			payload.Default = value.ParseStringList(defRaw)
		default:
			payload.Default = value.NewString(defRaw)
		}
	}

	var options []ast.OptionSpec
	var children []*ast.Node
	for _, c := range e.Children {
		if c.XMLName.Local == "option" {
			opt := b.buildOption(c)
			options = append(options, ast.OptionSpec{Value: opt.Input.OptionVal, Node: opt})
			children = append(children, opt)
			continue
		}
		if n := b.buildNode(c); n != nil {
			children = append(children, n)
		}
	}
	payload.Options = options

	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagInput)
	nb.WithInput(payload)
	nb.WithAttrs(collectAttrs(e))
	nb.WithChildren(children...)
	return nb.Build()
}

func (b *builder) buildOption(e element) *ast.Node {
	val, _ := e.attr("value")
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagInput)
	nb.WithInput(&ast.InputPayload{Kind: ast.OptionInput, OptionVal: val})
	nb.WithAttrs(collectAttrs(e))
	nb.WithChildren(b.childNodes(e)...)
	return nb.Build()
}

func (b *builder) buildInvocation(e element, kind ast.InvocationKind) *ast.Node {
	var target string
	switch kind {
	case ast.Call:
		target, _ = e.attr("method")
	case ast.Exec, ast.Source:
		if src, ok := e.attr("src"); ok {
			target = src
		} else if url, ok := e.attr("url"); ok {
			target = url
		}
	}
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagInvocation)
	nb.WithInvocation(&ast.InvocationPayload{Kind: kind, Target: target})
	return nb.Build()
}

func (b *builder) buildPresets(e element) *ast.Node {
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: ast.Presets})
	var children []*ast.Node
	for _, c := range e.Children {
		kind, ok := inputKindByElement[c.XMLName.Local]
		if !ok {
			continue
		}
		path, _ := c.attr("path")
		pb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(c), ast.TagPreset)
		payload := &ast.PresetPayload{Path: path, Kind: kind}
		if kind == ast.ListInput {
			payload.Values = splitPresetList(c)
		} else {
			payload.Value = parsePresetScalar(kind, strings.TrimSpace(c.CharData))
		}
		pb.WithPreset(payload)
		children = append(children, pb.Build())
	}
	nb.WithChildren(children...)
	return nb.Build()
}

func (b *builder) buildVariables(e element) *ast.Node {
	nb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(e), ast.TagBlock)
	nb.WithBlock(&ast.BlockPayload{Kind: ast.Variables})
	var children []*ast.Node
	for _, c := range e.Children {
		if c.XMLName.Local != "variable" {
			continue
		}
		path, _ := c.attr("path")
		transient, _ := c.attr("transient")
		vb := ast.NewNodeBuilder(b.loader.ids, b.path, b.loc(c), ast.TagVariable)
		vb.WithVariable(&ast.VariablePayload{
			Path:      path,
			Value:     value.NewString(strings.TrimSpace(c.CharData)),
			Transient: boolAttr(transient),
		})
		children = append(children, vb.Build())
	}
	nb.WithChildren(children...)
	return nb.Build()
}

func splitPresetList(e element) []string {
	text := strings.TrimSpace(e.CharData)
	v := value.ParseStringList(text)
	xs, _ := v.AsList()
	return xs
}

func parsePresetScalar(kind ast.InputKind, text string) value.Value {
	switch kind {
	case ast.BooleanInput:
		bv, _ := value.ParseBool(text)
		return value.NewBool(bv)
	default:
		return value.NewString(text)
	}
}

func boolAttr(raw string) bool {
	b, _ := value.ParseBool(raw)
	return b
}

// collectAttrs captures every attribute on e except id/default/optional/
// global/if, which are already promoted into typed payload fields.
func collectAttrs(e element) map[string]string {
	out := map[string]string{}
	for _, a := range e.Attrs {
		switch a.Name.Local {
		case "id", "default", "optional", "global", "if":
			continue
		}
		out[a.Name.Local] = a.Value
	}
	return out
}
