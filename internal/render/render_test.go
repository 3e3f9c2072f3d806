package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/flowguide/internal/flowchart"
)

func testTree(t *testing.T) *flowchart.Tree {
	t.Helper()
	spec := &flowchart.NodeSpec{
		ID: "root", Type: flowchart.KindSection, Label: "Triage",
		Children: []*flowchart.NodeSpec{
			{ID: "q", Type: flowchart.KindDecision, Label: "Anyone hurt?", ChildMode: flowchart.ModeChoice,
				Children: []*flowchart.NodeSpec{
					{ID: "yes", Type: flowchart.KindWarning, Label: "Call for help", Detail: "Dial **112**."},
					{ID: "no", Type: flowchart.KindAction, Label: "Continue"},
				}},
			{ID: "later", Type: flowchart.KindSection, Label: "Follow-up", Detail: "After the call.",
				Children: []*flowchart.NodeSpec{
					{ID: "file", Type: flowchart.KindAction, Label: "File a report", Detail: "<script>x</script>"},
				}},
		},
	}
	tree, err := flowchart.Build(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestFragment_StateAttributes(t *testing.T) {
	r := New("Guide")
	tree := testTree(t)

	frag, err := r.Fragment(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(frag)

	for _, want := range []string{
		`id="later"`,
		`data-position="02"`,
		`data-depth="2"`,
		`aria-expanded="false"`,
		`<hr class="flow-divider">`,
		`<strong>112</strong>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected fragment to contain %q", want)
		}
	}
	if strings.Contains(html, "<script>x</script>") {
		t.Error("expected raw HTML in detail to be escaped")
	}
}

func TestFragment_DividerOnlyForChoice(t *testing.T) {
	r := New("Guide")
	tree := testTree(t)
	frag, err := r.Fragment(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two choice children -> exactly one divider; the sequential root adds none.
	if got := strings.Count(string(frag), "flow-divider"); got != 1 {
		t.Errorf("expected 1 divider, got %d", got)
	}
}

func TestFragment_ReflectsToggles(t *testing.T) {
	r := New("Guide")
	tree := testTree(t)
	if _, err := tree.Activate("later"); err != nil {
		t.Fatal(err)
	}
	frag, err := r.Fragment(tree)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(frag), `aria-expanded="true"`) {
		t.Error("expected expanded section after activation")
	}
}

func TestErrorPanel_Escapes(t *testing.T) {
	r := New("Guide")
	panel := string(r.ErrorPanel("<b>broken</b>"))
	if !strings.Contains(panel, `role="alert"`) {
		t.Error("expected alert role on error panel")
	}
	if strings.Contains(panel, "<b>") {
		t.Error("expected message to be escaped")
	}
}

func TestPage_ContainerAndToggle(t *testing.T) {
	r := New("Guide")
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{Title: "Triage", Name: "triage", ContainerID: "flowchart", ToggleAll: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `id="flowchart"`) {
		t.Error("expected container element")
	}
	if !strings.Contains(out, `id="`+ToggleAllID+`"`) {
		t.Error("expected toggle-all control")
	}

	buf.Reset()
	if err := r.Page(&buf, PageData{Title: "Triage", ContainerID: "flowchart"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `id="`+ToggleAllID+`"`) {
		t.Error("expected no toggle-all control when disabled")
	}
}

func TestText_VisibleNodesOnly(t *testing.T) {
	tree := testTree(t)
	var buf bytes.Buffer
	if err := Text(&buf, tree); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Follow-up") {
		t.Error("expected collapsed section header to be listed")
	}
	if strings.Contains(out, "File a report") {
		t.Error("expected children of collapsed section to be hidden")
	}
	if !strings.Contains(out, "── or ──") {
		t.Error("expected divider between choice children")
	}

	flowchart.NewController(tree).ToggleAll()
	buf.Reset()
	if err := Text(&buf, tree); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "File a report") {
		t.Error("expected expand-all to reveal nested children")
	}
}
