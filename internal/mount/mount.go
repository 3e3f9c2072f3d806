package mount

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/flowguide/internal/flowchart"
	"github.com/dgallion1/flowguide/internal/render"
	"github.com/dgallion1/flowguide/internal/source"
)

// FailureMessage is what end users see when a flowchart cannot be shown.
// The underlying error only goes to the log.
const FailureMessage = "This flowchart could not be loaded. Please try again later."

var (
	// ErrContainerNotFound means the page has no element with the container id.
	ErrContainerNotFound = errors.New("mount container not found")

	// ErrMountFailed is returned by operations on a mount whose fetch or
	// build failed; such a mount only ever shows its error panel.
	ErrMountFailed = errors.New("flowchart mount failed")

	// ErrToggleAllUnavailable means the page had no expand/collapse-all control.
	ErrToggleAllUnavailable = errors.New("expand/collapse-all is not available on this page")
)

// Loader fetches a flowchart document. *source.Fetcher satisfies it.
type Loader interface {
	Fetch(ctx context.Context, locator string) (*flowchart.Document, error)
}

// Options configure a mount.
type Options struct {
	Name     string // catalog name, informational
	Strict   bool   // panic on toggle-time invariant violations
	Log      *slog.Logger
	Renderer *render.Renderer
}

// Mount is one flowchart attached to one page. All operations are
// serialised by mu, so at most one activation is applied at a time.
type Mount struct {
	ID   string
	Name string

	mu           sync.Mutex
	tree         *flowchart.Tree
	ctrl         *flowchart.Controller
	title        string
	err          error
	hasToggleAll bool
	updatedAt    time.Time

	strict   bool
	log      *slog.Logger
	renderer *render.Renderer
}

// Attach fetches the flowchart at locator, builds it, and fills the element
// with id containerID inside page. Fetch and build failures do not make
// Attach fail: the container gets the error panel and Err reports the
// cause. The only error returned is ErrContainerNotFound (or a render bug).
//
// If page contains the toggle-all control it is bound to this mount;
// otherwise bulk toggling is simply unavailable.
func Attach(ctx context.Context, page *html.Node, containerID, locator string, loader Loader, opts Options) (*Mount, error) {
	container := FindByID(page, containerID)
	if container == nil {
		return nil, fmt.Errorf("%w: #%s", ErrContainerNotFound, containerID)
	}

	m := &Mount{
		ID:        uuid.NewString(),
		Name:      opts.Name,
		updatedAt: time.Now(),
		strict:    opts.Strict,
		log:       opts.Log,
		renderer:  opts.Renderer,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.renderer == nil {
		m.renderer = render.New("")
	}
	m.log = m.log.With("mount_id", m.ID, "flowchart", m.Name)

	doc, err := loader.Fetch(ctx, locator)
	if err == nil {
		m.title = doc.Title
		m.tree, err = flowchart.Build(doc.Root)
	}

	var frag template.HTML
	if err != nil {
		m.err = err
		m.log.Warn("mount failed", "locator", locator, "kind", failureKind(err), "error", err)
		frag = m.renderer.ErrorPanel(FailureMessage)
	} else {
		m.ctrl = flowchart.NewController(m.tree)
		frag, err = m.renderer.Fragment(m.tree)
		if err != nil {
			return nil, err
		}
		m.log.Info("mount created", "locator", locator, "nodes", m.tree.Len())
	}

	if err := replaceChildren(container, string(frag)); err != nil {
		return nil, err
	}
	setAttr(container, "data-mount", m.ID)
	if m.err != nil {
		setAttr(container, "data-mount-failed", "true")
	}

	if ctl := FindByID(page, render.ToggleAllID); ctl != nil && m.err == nil {
		m.hasToggleAll = true
		setAttr(ctl, "data-mount", m.ID)
		setAttr(ctl, "aria-pressed", "false")
		setAttr(ctl, "aria-controls", containerID)
	}
	return m, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, source.ErrFetchFailure):
		return "fetch_failure"
	case errors.Is(err, flowchart.ErrMalformedTree):
		return "malformed_tree"
	case errors.Is(err, flowchart.ErrDuplicateID):
		return "duplicate_id"
	}
	return "unknown"
}

// Err returns the fetch/build failure, nil for a live mount.
func (m *Mount) Err() error { return m.err }

// Title returns the document title, if it had one.
func (m *Mount) Title() string { return m.title }

// HasToggleAll reports whether the page offered an expand/collapse-all control.
func (m *Mount) HasToggleAll() bool { return m.hasToggleAll }

// UpdatedAt returns the last time the mount was created or used.
func (m *Mount) UpdatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatedAt
}

func (m *Mount) touch() { m.updatedAt = time.Now() }

// Snapshot is the externally visible state of a mount.
type Snapshot struct {
	MountID     string                `json:"mount_id"`
	Name        string                `json:"name,omitempty"`
	Title       string                `json:"title,omitempty"`
	AllExpanded bool                  `json:"all_expanded"`
	ToggleAll   bool                  `json:"toggle_all"`
	Nodes       []flowchart.NodeState `json:"nodes"`
}

// Snapshot returns the state of every node.
func (m *Mount) Snapshot() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Snapshot{}, ErrMountFailed
	}
	m.touch()
	return m.snapshotLocked(), nil
}

func (m *Mount) snapshotLocked() Snapshot {
	return Snapshot{
		MountID:     m.ID,
		Name:        m.Name,
		Title:       m.title,
		AllExpanded: m.ctrl.AllExpanded(),
		ToggleAll:   m.hasToggleAll,
		Nodes:       m.tree.Snapshot(),
	}
}

// Activate applies a header activation (facet == FacetChildren or "") or a
// detail-region activation (facet == FacetDetail) to node id.
func (m *Mount) Activate(id string, facet flowchart.Facet) (flowchart.NodeState, flowchart.Facet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return flowchart.NodeState{}, flowchart.FacetNone, ErrMountFailed
	}
	m.touch()

	var (
		changed flowchart.Facet
		err     error
	)
	if facet == flowchart.FacetDetail {
		changed, err = m.tree.ActivateDetail(id)
	} else {
		changed, err = m.tree.Activate(id)
	}
	if err != nil {
		return flowchart.NodeState{}, flowchart.FacetNone, err
	}
	m.verify("activate")

	st, _ := m.tree.State(id)
	m.log.Debug("node activated", "node", id, "facet", changed)
	return st, changed, nil
}

// ToggleAll flips the bulk flag and returns the resulting snapshot.
func (m *Mount) ToggleAll() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Snapshot{}, ErrMountFailed
	}
	if !m.hasToggleAll {
		return Snapshot{}, ErrToggleAllUnavailable
	}
	m.touch()

	expanded := m.ctrl.ToggleAll()
	m.verify("toggle_all")
	m.log.Debug("toggle all", "all_expanded", expanded)
	return m.snapshotLocked(), nil
}

// Fragment renders the current state as HTML for the mount container.
func (m *Mount) Fragment() (template.HTML, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.renderer.ErrorPanel(FailureMessage), nil
	}
	m.touch()
	return m.renderer.Fragment(m.tree)
}

// Text writes the terminal outline of the current state.
func (m *Mount) Text(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return ErrMountFailed
	}
	return render.Text(w, m.tree)
}

// verify checks the tree after a transition. Violations are programming
// errors: strict mounts panic, others log and carry on.
func (m *Mount) verify(op string) {
	err := m.tree.Check()
	if err == nil {
		return
	}
	if m.strict {
		panic(fmt.Sprintf("flowchart %s: %v", op, err))
	}
	m.log.Warn("inconsistent flowchart state", "op", op, "error", err)
}

// FindByID returns the first element in n's subtree with the given id.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// replaceChildren swaps container's children for the parsed fragment.
func replaceChildren(container *html.Node, fragment string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: container.Data, DataAtom: container.DataAtom}
	if ctx.DataAtom == 0 {
		ctx.DataAtom = atom.Div
		ctx.Data = "div"
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		container.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return nil
}
