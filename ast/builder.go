package ast

import "github.com/arclang/archetype/value"

// NodeBuilder accumulates attributes for one node during XML loading. It
// is consumed exactly once by Build(); after that every Node in the tree
// is immutable (spec.md §3 "Lifecycle", §9 "Builder pattern").
type NodeBuilder struct {
	ids  *IDGenerator
	node Node
}

// NewNodeBuilder starts building a node at the given script path and
// source location, tagged with the given variant.
func NewNodeBuilder(ids *IDGenerator, scriptPath string, loc Location, tag Tag) *NodeBuilder {
	return &NodeBuilder{
		ids: ids,
		node: Node{
			ScriptPath: scriptPath,
			Loc:        loc,
			Attrs:      map[string]string{},
			Tag:        tag,
		},
	}
}

// WithAttr sets a raw attribute string.
func (b *NodeBuilder) WithAttr(name, raw string) *NodeBuilder {
	b.node.Attrs[name] = raw
	return b
}

// WithAttrs merges a batch of raw attribute strings.
func (b *NodeBuilder) WithAttrs(attrs map[string]string) *NodeBuilder {
	for k, v := range attrs {
		b.node.Attrs[k] = v
	}
	return b
}

// WithChild appends a child node.
func (b *NodeBuilder) WithChild(child *Node) *NodeBuilder {
	b.node.Children = append(b.node.Children, child)
	return b
}

// WithChildren appends several child nodes.
func (b *NodeBuilder) WithChildren(children ...*Node) *NodeBuilder {
	b.node.Children = append(b.node.Children, children...)
	return b
}

// WithBlock sets the TagBlock payload.
func (b *NodeBuilder) WithBlock(p *BlockPayload) *NodeBuilder {
	b.node.Block = p
	return b
}

// WithCondition sets the TagCondition payload.
func (b *NodeBuilder) WithCondition(p *ConditionPayload) *NodeBuilder {
	b.node.Condition = p
	return b
}

// WithInvocation sets the TagInvocation payload.
func (b *NodeBuilder) WithInvocation(p *InvocationPayload) *NodeBuilder {
	b.node.Invocation = p
	return b
}

// WithInput sets the TagInput payload.
func (b *NodeBuilder) WithInput(p *InputPayload) *NodeBuilder {
	b.node.Input = p
	return b
}

// WithPreset sets the TagPreset payload.
func (b *NodeBuilder) WithPreset(p *PresetPayload) *NodeBuilder {
	b.node.Preset = p
	return b
}

// WithVariable sets the TagVariable payload.
func (b *NodeBuilder) WithVariable(p *VariablePayload) *NodeBuilder {
	b.node.Variable = p
	return b
}

// WithValidation sets the TagValidation payload.
func (b *NodeBuilder) WithValidation(p *ValidationPayload) *NodeBuilder {
	b.node.Validation = p
	return b
}

// Build finalizes the node, assigning it its id.
func (b *NodeBuilder) Build() *Node {
	b.node.ID = b.ids.Next()
	n := b.node
	return &n
}

// NewBlock is a convenience constructor mirroring the builder's most
// common use (a plain structural block with no extra payload fields).
func NewBlock(ids *IDGenerator, scriptPath string, loc Location, kind BlockKind, name string, children ...*Node) *Node {
	return NewNodeBuilder(ids, scriptPath, loc, TagBlock).
		WithBlock(&BlockPayload{Kind: kind, Name: name}).
		WithChildren(children...).
		Build()
}

// NewCondition is a convenience constructor for a Condition node guarding
// the given subtree.
func NewCondition(ids *IDGenerator, scriptPath string, loc Location, expr string, then ...*Node) *Node {
	return NewNodeBuilder(ids, scriptPath, loc, TagCondition).
		WithCondition(&ConditionPayload{Expression: expr}).
		WithChildren(then...).
		Build()
}

// NewInvocation is a convenience constructor for Invocation nodes.
func NewInvocation(ids *IDGenerator, scriptPath string, loc Location, kind InvocationKind, target string) *Node {
	return NewNodeBuilder(ids, scriptPath, loc, TagInvocation).
		WithInvocation(&InvocationPayload{Kind: kind, Target: target}).
		Build()
}

// NewVariable is a convenience constructor for Variable nodes.
func NewVariable(ids *IDGenerator, scriptPath string, loc Location, path string, v value.Value, transient bool) *Node {
	return NewNodeBuilder(ids, scriptPath, loc, TagVariable).
		WithVariable(&VariablePayload{Path: path, Value: v, Transient: transient}).
		Build()
}
