package flowchart

import (
	"fmt"
	"strings"
)

// Node is the live instance of a NodeSpec. Depth, sibling index and position
// are fixed at build time; the two visibility flags change through the
// transitions in state.go only.
type Node struct {
	Spec         *NodeSpec
	Parent       *Node
	Children     []*Node
	Depth        int    // 0 for the root
	SiblingIndex int    // 0-based position among siblings
	Position     string // e.g. "01.03"; empty for the root

	childrenExpanded bool
	detailExpanded   bool
}

// ID returns the node's id.
func (n *Node) ID() string { return n.Spec.ID }

// Kind returns the node's type.
func (n *Node) Kind() Kind { return n.Spec.Type }

// Label returns the node's label.
func (n *Node) Label() string { return n.Spec.Label }

// Detail returns the node's detail text, empty if it has none.
func (n *Node) Detail() string { return n.Spec.Detail }

// HasDetail reports whether the node carries detail text.
func (n *Node) HasDetail() bool { return strings.TrimSpace(n.Spec.Detail) != "" }

// IsSection reports whether the node has a collapsible children subtree.
func (n *Node) IsSection() bool {
	return n.Spec.Type == KindSection && len(n.Children) > 0
}

// Mode returns the child layout mode, defaulting to sequential.
func (n *Node) Mode() ChildMode {
	if n.Spec.ChildMode == ModeChoice {
		return ModeChoice
	}
	return ModeSequential
}

// ChildrenExpanded reports whether the node's children are visible.
func (n *Node) ChildrenExpanded() bool { return n.childrenExpanded }

// DetailExpanded reports whether the node's detail is visible.
func (n *Node) DetailExpanded() bool { return n.detailExpanded }

// Visible reports whether every ancestor has its children expanded.
func (n *Node) Visible() bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if !p.childrenExpanded {
			return false
		}
	}
	return true
}

// Segments returns the position label split into its per-level parts.
func (n *Node) Segments() []string {
	if n.Position == "" {
		return nil
	}
	return strings.Split(n.Position, ".")
}

// Tree is one materialized flowchart: the root node plus an id index.
type Tree struct {
	Root  *Node
	byID  map[string]*Node
	order []*Node // pre-order
}

// Build materializes spec depth-first, preserving child order. It fails with
// ErrMalformedTree when the root is absent or a node lacks an id, type or
// label, and with ErrDuplicateID when an id repeats.
func Build(spec *NodeSpec) (*Tree, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: missing root", ErrMalformedTree)
	}
	t := &Tree{byID: make(map[string]*Node, spec.Count())}
	root, err := t.build(spec, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	t.Root = root
	return t, nil
}

func (t *Tree) build(spec *NodeSpec, parent *Node, depth, index int) (*Node, error) {
	if err := validateSpec(spec, parent, index); err != nil {
		return nil, err
	}
	if _, dup := t.byID[spec.ID]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, spec.ID)
	}

	n := &Node{
		Spec:         spec,
		Parent:       parent,
		Depth:        depth,
		SiblingIndex: index,
		Position:     positionLabel(parent, index),
	}
	t.byID[spec.ID] = n
	t.order = append(t.order, n)

	for i, cs := range spec.Children {
		child, err := t.build(cs, n, depth+1, i)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}

	// Initial state: only sections below the root start collapsed.
	n.childrenExpanded = !(spec.Type == KindSection && depth >= 1)
	n.detailExpanded = false
	return n, nil
}

func validateSpec(spec *NodeSpec, parent *Node, index int) error {
	where := "root"
	if parent != nil {
		where = positionLabel(parent, index)
	}
	if spec == nil {
		return fmt.Errorf("%w: node %s is null", ErrMalformedTree, where)
	}
	if spec.ID == "" {
		return fmt.Errorf("%w: node %s: missing id", ErrMalformedTree, where)
	}
	if spec.Type == "" {
		return fmt.Errorf("%w: node %q: missing type", ErrMalformedTree, spec.ID)
	}
	if !validKinds[spec.Type] {
		return fmt.Errorf("%w: node %q: unknown type %q", ErrMalformedTree, spec.ID, spec.Type)
	}
	if strings.TrimSpace(spec.Label) == "" {
		return fmt.Errorf("%w: node %q: missing label", ErrMalformedTree, spec.ID)
	}
	switch spec.ChildMode {
	case "", ModeSequential, ModeChoice:
	default:
		return fmt.Errorf("%w: node %q: unknown childMode %q", ErrMalformedTree, spec.ID, spec.ChildMode)
	}
	return nil
}

// positionLabel appends the zero-padded, 1-based index to the parent's label.
func positionLabel(parent *Node, index int) string {
	if parent == nil {
		return ""
	}
	seg := fmt.Sprintf("%02d", index+1)
	if parent.Position == "" {
		return seg
	}
	return parent.Position + "." + seg
}

// Node looks a node up by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.order) }

// Walk visits every node in pre-order (document order).
func (t *Tree) Walk(fn func(*Node)) {
	for _, n := range t.order {
		fn(n)
	}
}
