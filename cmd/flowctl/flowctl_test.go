package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `title: Outage
root:
  id: root
  type: section
  label: Outage
  children:
    - id: check
      type: decision
      label: Is the site down?
      childMode: choice
      children:
        - id: page
          type: warning
          label: Page the on-call
          detail: Use the **pager**.
        - id: watch
          type: info
          label: Monitor
    - id: after
      type: section
      label: Afterwards
      children:
        - id: review
          type: action
          label: Write the review
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestValidate(t *testing.T) {
	good := writeSample(t, "outage.yaml", sampleYAML)
	bad := writeSample(t, "bad.json", `{"root":{"id":"r","type":"bogus","label":"R"}}`)

	out, err := run(t, "validate", good)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "(6 nodes)") {
		t.Errorf("expected node count in output, got %q", out)
	}

	out, err = run(t, "validate", good, bad)
	if err == nil {
		t.Fatal("expected error for invalid document")
	}
	if !strings.Contains(out, "FAIL "+bad) {
		t.Errorf("expected failure line for %s, got %q", bad, out)
	}
}

func TestRender_Text(t *testing.T) {
	p := writeSample(t, "outage.yaml", sampleYAML)

	out, err := run(t, "render", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Write the review") {
		t.Error("expected collapsed section children to be hidden")
	}

	out, err = run(t, "render", "--expand-all", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Write the review") || !strings.Contains(out, "pager") {
		t.Errorf("expected fully expanded outline, got:\n%s", out)
	}
}

func TestRender_HTMLFormats(t *testing.T) {
	p := writeSample(t, "outage.yaml", sampleYAML)

	out, err := run(t, "render", "--format", "html", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `class="flow-divider"`) {
		t.Error("expected choice divider in fragment")
	}

	out, err = run(t, "render", "--format", "page", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<!DOCTYPE html>") || !strings.Contains(out, "data-mount=") {
		t.Error("expected full page with bound container")
	}

	if _, err := run(t, "render", "--format", "page", "--expand-all", p); err == nil {
		t.Error("expected --expand-all to be rejected for page output")
	}
	if _, err := run(t, "render", "--format", "pdf", p); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestRender_MissingFile(t *testing.T) {
	if _, err := run(t, "render", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
