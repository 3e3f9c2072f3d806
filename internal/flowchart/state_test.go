package flowchart

import (
	"errors"
	"testing"
)

func TestInitialState(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())

	tests := []struct {
		id       string
		children bool
	}{
		{"root", true},
		{"a", true},
		{"b", false},
		{"c", true},
	}
	for _, tt := range tests {
		st, ok := tree.State(tt.id)
		if !ok {
			t.Fatalf("node %q not found", tt.id)
		}
		if st.ChildrenExpanded != tt.children {
			t.Errorf("%s: expected children_expanded=%v, got %v", tt.id, tt.children, st.ChildrenExpanded)
		}
		if st.DetailExpanded {
			t.Errorf("%s: expected detail collapsed initially", tt.id)
		}
	}
}

func TestActivate_SectionTogglesChildren(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())

	facet, err := tree.Activate("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facet != FacetChildren {
		t.Errorf("expected facet %q, got %q", FacetChildren, facet)
	}
	b, _ := tree.State("b")
	if !b.ChildrenExpanded {
		t.Error("expected B children expanded after first activation")
	}
	if !b.DetailExpanded {
		t.Error("expected B detail revealed by expanding B")
	}

	if _, err := tree.Activate("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ = tree.State("b")
	if b.ChildrenExpanded {
		t.Error("expected B children collapsed after second activation")
	}
	if b.DetailExpanded {
		t.Error("expected B detail hidden by collapsing B")
	}
}

func TestActivate_SectionHeaderNeverTogglesDetailDirectly(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())

	facet, err := tree.ActivateDetail("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facet != FacetNone {
		t.Errorf("expected facet %q, got %q", FacetNone, facet)
	}
	b, _ := tree.State("b")
	if b.DetailExpanded || b.ChildrenExpanded {
		t.Errorf("expected section untouched by detail activation, got %+v", b)
	}
}

func TestActivate_DetailNode(t *testing.T) {
	spec := &NodeSpec{
		ID: "root", Type: KindSection, Label: "Root",
		Children: []*NodeSpec{
			{ID: "x", Type: KindWarning, Label: "X", Detail: "x"},
			{ID: "y", Type: KindWarning, Label: "Y", Detail: "y"},
		},
	}
	tree := mustBuild(t, spec)

	facet, err := tree.Activate("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facet != FacetDetail {
		t.Errorf("expected facet %q, got %q", FacetDetail, facet)
	}
	x, _ := tree.State("x")
	if !x.DetailExpanded {
		t.Error("expected detail expanded after first activation")
	}

	// A sibling does not affect x.
	if _, err := tree.Activate("y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ = tree.State("x")
	if !x.DetailExpanded {
		t.Error("expected x detail unaffected by activating sibling")
	}

	// The detail region toggles the same facet.
	if _, err := tree.ActivateDetail("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ = tree.State("x")
	if x.DetailExpanded {
		t.Error("expected detail collapsed after second activation")
	}
}

func TestActivate_PlainNodeIsNoop(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())
	before := tree.Snapshot()

	facet, err := tree.Activate("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facet != FacetNone {
		t.Errorf("expected facet %q, got %q", FacetNone, facet)
	}
	after := tree.Snapshot()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("expected %q unchanged, got %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
}

func TestActivate_NonSectionWithChildrenStaysExpanded(t *testing.T) {
	spec := &NodeSpec{
		ID: "root", Type: KindSection, Label: "Root",
		Children: []*NodeSpec{
			{ID: "q", Type: KindDecision, Label: "Q?", Detail: "why", ChildMode: ModeChoice, Children: []*NodeSpec{
				{ID: "yes", Type: KindAction, Label: "Yes"},
				{ID: "no", Type: KindAction, Label: "No"},
			}},
		},
	}
	tree := mustBuild(t, spec)

	facet, err := tree.Activate("q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facet != FacetDetail {
		t.Errorf("expected facet %q, got %q", FacetDetail, facet)
	}
	q, _ := tree.State("q")
	if !q.ChildrenExpanded {
		t.Error("expected decision children to stay expanded")
	}
	if !q.DetailExpanded {
		t.Error("expected decision detail expanded")
	}
}

func TestActivate_UnknownNode(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())
	if _, err := tree.Activate("missing"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if _, err := tree.ActivateDetail("missing"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestCheck_DetectsDetailInsideCollapsedSection(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())
	if err := tree.Check(); err != nil {
		t.Fatalf("expected initial tree to be consistent, got %v", err)
	}

	b, _ := tree.Node("b")
	b.detailExpanded = true
	if err := tree.Check(); !errors.Is(err, ErrInconsistentState) {
		t.Errorf("expected ErrInconsistentState, got %v", err)
	}
}

func TestSnapshot_DocumentOrder(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())
	snap := tree.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 states, got %d", len(snap))
	}
	if snap[3].ID != "c" || snap[3].Position != "02.01" || snap[3].Depth != 2 {
		t.Errorf("unexpected last state: %+v", snap[3])
	}
	if !snap[2].Collapsible {
		t.Error("expected B to be reported collapsible")
	}
}
