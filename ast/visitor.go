package ast

// VisitResult is the only control-flow mechanism the walker understands
// (spec.md §4.5, §9 "Cooperative traversal").
type VisitResult int

const (
	// Continue descends into the node's children as usual.
	Continue VisitResult = iota
	// SkipSubtree skips the node's children and its post-visit.
	SkipSubtree
	// SkipSiblings aborts the remaining siblings at the current depth.
	SkipSiblings
	// Terminate aborts the entire walk.
	Terminate
)

func (r VisitResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case SkipSubtree:
		return "skip-subtree"
	case SkipSiblings:
		return "skip-siblings"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Visitor is implemented by anything that drives a walk over the AST
// (controller, validator, permutation engine). VisitAny runs before a
// node's children are visited; PostVisitAny runs after, unless VisitAny
// returned anything other than Continue.
type Visitor interface {
	VisitAny(n *Node) (VisitResult, error)
	PostVisitAny(n *Node) error
}

// BaseVisitor provides no-op defaults so concrete visitors only implement
// the node kinds they care about (spec.md §9: "default visit_any /
// post_visit_any and overridable methods per variant").
type BaseVisitor struct{}

func (BaseVisitor) VisitAny(*Node) (VisitResult, error) { return Continue, nil }
func (BaseVisitor) PostVisitAny(*Node) error             { return nil }
