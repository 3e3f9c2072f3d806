package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/flowguide/internal/flowchart"
)

var (
	positionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true)
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	kindStyles = map[flowchart.Kind]lipgloss.Style{
		flowchart.KindDecision: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		flowchart.KindAction:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flowchart.KindWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		flowchart.KindInfo:     lipgloss.NewStyle(),
		flowchart.KindSection:  lipgloss.NewStyle().Bold(true).Underline(true),
	}
)

// Text writes an indented outline of the visible part of the tree.
// Collapsed sections show "▸", expanded ones "▾".
func Text(w io.Writer, t *flowchart.Tree) error {
	var b strings.Builder
	writeTextNode(&b, t.Root)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextNode(b *strings.Builder, n *flowchart.Node) {
	indent := strings.Repeat("  ", n.Depth)

	marker := "•"
	if n.IsSection() {
		marker = "▸"
		if n.ChildrenExpanded() {
			marker = "▾"
		}
	}
	line := marker + " "
	if n.Position != "" {
		line += positionStyle.Render(n.Position) + " "
	}
	line += kindStyles[n.Kind()].Render(n.Label())
	fmt.Fprintf(b, "%s%s\n", indent, line)

	if n.HasDetail() && n.DetailExpanded() {
		for _, l := range strings.Split(strings.TrimSpace(n.Detail()), "\n") {
			fmt.Fprintf(b, "%s    %s\n", indent, detailStyle.Render(l))
		}
	}
	if !n.ChildrenExpanded() {
		return
	}
	for i, c := range n.Children {
		if i > 0 && n.Mode() == flowchart.ModeChoice {
			fmt.Fprintf(b, "%s  %s\n", indent, dividerStyle.Render("── or ──"))
		}
		writeTextNode(b, c)
	}
}
