package flowchart

import "fmt"

// Facet names which visibility flag an activation changed.
type Facet string

const (
	FacetNone     Facet = "none"
	FacetChildren Facet = "children"
	FacetDetail   Facet = "detail"
)

// setChildrenExpanded is the only transition for the children facet. A
// section's own detail follows its children: expanding reveals it,
// collapsing hides it. Both the per-node handlers and the Controller go
// through here.
func setChildrenExpanded(n *Node, expanded bool) {
	n.childrenExpanded = expanded
	if n.HasDetail() {
		n.detailExpanded = expanded
	}
}

func setDetailExpanded(n *Node, expanded bool) {
	if n.HasDetail() {
		n.detailExpanded = expanded
	}
}

// Activate handles activation of a node's header. Sections toggle their
// children (and, through the coupling, their detail); any other node with
// detail toggles the detail. Nodes with neither report FacetNone.
func (t *Tree) Activate(id string) (Facet, error) {
	n, ok := t.byID[id]
	if !ok {
		return FacetNone, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	switch {
	case n.IsSection():
		setChildrenExpanded(n, !n.childrenExpanded)
		return FacetChildren, nil
	case n.HasDetail():
		setDetailExpanded(n, !n.detailExpanded)
		return FacetDetail, nil
	}
	return FacetNone, nil
}

// ActivateDetail handles activation of a node's detail region. A section's
// detail is only ever revealed through its children facet, so sections
// report FacetNone here.
func (t *Tree) ActivateDetail(id string) (Facet, error) {
	n, ok := t.byID[id]
	if !ok {
		return FacetNone, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if n.IsSection() || !n.HasDetail() {
		return FacetNone, nil
	}
	setDetailExpanded(n, !n.detailExpanded)
	return FacetDetail, nil
}

// Check verifies that no node is in a facet combination the transitions
// cannot produce: a non-section with collapsed children, or a collapsed
// section whose own detail is showing.
func (t *Tree) Check() error {
	for _, n := range t.order {
		if len(n.Children) > 0 && !n.IsSection() && !n.childrenExpanded {
			return fmt.Errorf("%w: %q is not collapsible but its children are hidden", ErrInconsistentState, n.ID())
		}
		if n.IsSection() && n.detailExpanded && !n.childrenExpanded {
			return fmt.Errorf("%w: %q shows detail inside a collapsed section", ErrInconsistentState, n.ID())
		}
		if !n.HasDetail() && n.detailExpanded {
			return fmt.Errorf("%w: %q has no detail to expand", ErrInconsistentState, n.ID())
		}
	}
	return nil
}

// NodeState is the presentation-free view of one node's state.
type NodeState struct {
	ID               string `json:"id"`
	Type             Kind   `json:"type"`
	Position         string `json:"position"`
	Depth            int    `json:"depth"`
	Collapsible      bool   `json:"collapsible"`
	HasDetail        bool   `json:"has_detail"`
	ChildrenExpanded bool   `json:"children_expanded"`
	DetailExpanded   bool   `json:"detail_expanded"`
}

func stateOf(n *Node) NodeState {
	return NodeState{
		ID:               n.ID(),
		Type:             n.Kind(),
		Position:         n.Position,
		Depth:            n.Depth,
		Collapsible:      n.IsSection(),
		HasDetail:        n.HasDetail(),
		ChildrenExpanded: n.childrenExpanded,
		DetailExpanded:   n.detailExpanded,
	}
}

// State returns the state of a single node.
func (t *Tree) State(id string) (NodeState, bool) {
	n, ok := t.byID[id]
	if !ok {
		return NodeState{}, false
	}
	return stateOf(n), true
}

// Snapshot returns the state of every node in document order.
func (t *Tree) Snapshot() []NodeState {
	out := make([]NodeState, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, stateOf(n))
	}
	return out
}
