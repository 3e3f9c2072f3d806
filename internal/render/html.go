package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/flowguide/internal/flowchart"
)

// Renderer turns instance trees into HTML. It only reads state; it never
// changes a flag.
type Renderer struct {
	md    goldmark.Markdown
	tmpl  *template.Template
	title string
}

// New creates a Renderer. siteTitle is used in full pages.
func New(siteTitle string) *Renderer {
	return &Renderer{
		// Raw HTML in detail text is escaped (goldmark's default).
		md:    goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough)),
		tmpl:  template.Must(template.New("flowchart").Parse(pageTemplates)),
		title: siteTitle,
	}
}

// nodeView is the template-facing copy of one node.
type nodeView struct {
	ID               string
	Type             string
	Label            string
	Position         string
	Depth            int
	Detail           template.HTML
	HasDetail        bool
	Collapsible      bool
	ChildrenExpanded bool
	DetailExpanded   bool
	Choice           bool
	Children         []nodeView
}

func (r *Renderer) view(n *flowchart.Node) nodeView {
	v := nodeView{
		ID:               n.ID(),
		Type:             string(n.Kind()),
		Label:            n.Label(),
		Position:         n.Position,
		Depth:            n.Depth,
		HasDetail:        n.HasDetail(),
		Collapsible:      n.IsSection(),
		ChildrenExpanded: n.ChildrenExpanded(),
		DetailExpanded:   n.DetailExpanded(),
		Choice:           n.Mode() == flowchart.ModeChoice,
	}
	if v.HasDetail {
		v.Detail = r.Markdown(n.Detail())
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, r.view(c))
	}
	return v
}

// Markdown converts detail text to HTML. On a conversion error the text is
// shown escaped instead.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(strings.TrimSpace(buf.String()))
}

// Fragment renders the whole tree as the contents of a mount container.
func (r *Renderer) Fragment(t *flowchart.Tree) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "tree", r.view(t.Root)); err != nil {
		return "", fmt.Errorf("render tree: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ErrorPanel renders the static failure panel shown instead of a tree.
func (r *Renderer) ErrorPanel(msg string) template.HTML {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "error", msg); err != nil {
		return template.HTML(`<div class="flow-error" role="alert">` + template.HTMLEscapeString(msg) + `</div>`)
	}
	return template.HTML(buf.String())
}

// PageData fills the page shell.
type PageData struct {
	Title       string
	Name        string
	ContainerID string
	ToggleAll   bool // include the expand/collapse-all control
}

// Page writes a full HTML document with an empty mount container.
func (r *Renderer) Page(w io.Writer, d PageData) error {
	data := struct {
		PageData
		SiteTitle string
	}{d, r.title}
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// IndexEntry is one link on the index page.
type IndexEntry struct {
	Name  string
	Title string
}

// Index writes the list of available flowcharts.
func (r *Renderer) Index(w io.Writer, entries []IndexEntry) error {
	data := struct {
		SiteTitle string
		Entries   []IndexEntry
	}{r.title, entries}
	if err := r.tmpl.ExecuteTemplate(w, "index", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}
