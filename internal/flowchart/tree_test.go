package flowchart

import (
	"errors"
	"testing"
)

// scenarioSpec is root(section) -> A(action), B(section) -> C(info).
func scenarioSpec() *NodeSpec {
	return &NodeSpec{
		ID:    "root",
		Type:  KindSection,
		Label: "Root",
		Children: []*NodeSpec{
			{ID: "a", Type: KindAction, Label: "A"},
			{
				ID:     "b",
				Type:   KindSection,
				Label:  "B",
				Detail: "About B",
				Children: []*NodeSpec{
					{ID: "c", Type: KindInfo, Label: "C", Detail: "x"},
				},
			},
		},
	}
}

func mustBuild(t *testing.T, spec *NodeSpec) *Tree {
	t.Helper()
	tree, err := Build(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestBuild_DepthAndPosition(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())

	if tree.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", tree.Len())
	}

	tests := []struct {
		id       string
		depth    int
		sibling  int
		position string
	}{
		{"root", 0, 0, ""},
		{"a", 1, 0, "01"},
		{"b", 1, 1, "02"},
		{"c", 2, 0, "02.01"},
	}
	for _, tt := range tests {
		n, ok := tree.Node(tt.id)
		if !ok {
			t.Fatalf("node %q not found", tt.id)
		}
		if n.Depth != tt.depth {
			t.Errorf("%s: expected depth %d, got %d", tt.id, tt.depth, n.Depth)
		}
		if n.SiblingIndex != tt.sibling {
			t.Errorf("%s: expected sibling index %d, got %d", tt.id, tt.sibling, n.SiblingIndex)
		}
		if n.Position != tt.position {
			t.Errorf("%s: expected position %q, got %q", tt.id, tt.position, n.Position)
		}
	}
}

func TestBuild_PositionZeroPadding(t *testing.T) {
	spec := &NodeSpec{ID: "root", Type: KindSection, Label: "Root"}
	for i := 0; i < 12; i++ {
		spec.Children = append(spec.Children, &NodeSpec{
			ID:    string(rune('a' + i)),
			Type:  KindAction,
			Label: "step",
		})
	}
	tree := mustBuild(t, spec)

	last := tree.Root.Children[11]
	if last.Position != "12" {
		t.Errorf("expected position %q, got %q", "12", last.Position)
	}
	ninth := tree.Root.Children[8]
	if ninth.Position != "09" {
		t.Errorf("expected position %q, got %q", "09", ninth.Position)
	}
}

func TestBuild_PreservesChildOrder(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())

	var ids []string
	tree.Walk(func(n *Node) { ids = append(ids, n.ID()) })

	want := []string{"root", "a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name string
		spec *NodeSpec
	}{
		{"nil root", nil},
		{"missing type", &NodeSpec{ID: "r", Label: "Root"}},
		{"missing label", &NodeSpec{ID: "r", Type: KindSection}},
		{"missing id", &NodeSpec{Type: KindInfo, Label: "Root"}},
		{"unknown type", &NodeSpec{ID: "r", Type: "banner", Label: "Root"}},
		{"unknown mode", &NodeSpec{ID: "r", Type: KindSection, Label: "Root", ChildMode: "parallel"}},
		{"nested missing label", &NodeSpec{
			ID: "r", Type: KindSection, Label: "Root",
			Children: []*NodeSpec{{ID: "x", Type: KindAction}},
		}},
		{"null child", &NodeSpec{
			ID: "r", Type: KindSection, Label: "Root",
			Children: []*NodeSpec{nil},
		}},
	}
	for _, tt := range tests {
		_, err := Build(tt.spec)
		if !errors.Is(err, ErrMalformedTree) {
			t.Errorf("%s: expected ErrMalformedTree, got %v", tt.name, err)
		}
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	spec := &NodeSpec{
		ID: "root", Type: KindSection, Label: "Root",
		Children: []*NodeSpec{
			{ID: "dup", Type: KindAction, Label: "One"},
			{ID: "dup", Type: KindAction, Label: "Two"},
		},
	}
	_, err := Build(spec)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestNode_Mode(t *testing.T) {
	spec := &NodeSpec{
		ID: "root", Type: KindDecision, Label: "Pick", ChildMode: ModeChoice,
		Children: []*NodeSpec{
			{ID: "yes", Type: KindAction, Label: "Yes"},
			{ID: "no", Type: KindAction, Label: "No"},
		},
	}
	tree := mustBuild(t, spec)
	if tree.Root.Mode() != ModeChoice {
		t.Errorf("expected mode %q, got %q", ModeChoice, tree.Root.Mode())
	}
	yes, _ := tree.Node("yes")
	if yes.Mode() != ModeSequential {
		t.Errorf("expected default mode %q, got %q", ModeSequential, yes.Mode())
	}
}

func TestNode_IsSection(t *testing.T) {
	spec := &NodeSpec{
		ID: "root", Type: KindDecision, Label: "Root",
		Children: []*NodeSpec{
			{ID: "empty", Type: KindSection, Label: "Empty section"},
			{ID: "full", Type: KindSection, Label: "Full section", Children: []*NodeSpec{
				{ID: "leaf", Type: KindInfo, Label: "Leaf"},
			}},
		},
	}
	tree := mustBuild(t, spec)

	if tree.Root.IsSection() {
		t.Error("expected decision node with children not to be a section")
	}
	empty, _ := tree.Node("empty")
	if empty.IsSection() {
		t.Error("expected childless section not to be collapsible")
	}
	if empty.ChildrenExpanded() {
		t.Error("expected section below the root to start with children collapsed")
	}
	full, _ := tree.Node("full")
	if !full.IsSection() {
		t.Error("expected section with children to be collapsible")
	}
}

func TestNode_Visible(t *testing.T) {
	tree := mustBuild(t, scenarioSpec())
	c, _ := tree.Node("c")
	if c.Visible() {
		t.Error("expected C to be hidden inside collapsed B")
	}
	if _, err := tree.Activate("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Visible() {
		t.Error("expected C to be visible after expanding B")
	}
}
