package flowchart

// Kind is the type of a flowchart node.
type Kind string

const (
	KindDecision Kind = "decision"
	KindAction   Kind = "action"
	KindWarning  Kind = "warning"
	KindInfo     Kind = "info"
	KindSection  Kind = "section"
)

var validKinds = map[Kind]bool{
	KindDecision: true,
	KindAction:   true,
	KindWarning:  true,
	KindInfo:     true,
	KindSection:  true,
}

// ChildMode controls how a node's children are laid out.
type ChildMode string

const (
	ModeSequential ChildMode = "sequential" // Ordered steps.
	ModeChoice     ChildMode = "choice"     // Mutually exclusive alternatives, separated by a divider.
)

// Document is the payload a flowchart data source serves.
type Document struct {
	Title string    `json:"title,omitempty" yaml:"title,omitempty"`
	Root  *NodeSpec `json:"root" yaml:"root"`
}

// NodeSpec is the declarative, externally supplied description of a node.
// It is never mutated after decoding.
type NodeSpec struct {
	ID        string      `json:"id" yaml:"id"`
	Type      Kind        `json:"type" yaml:"type"`
	Label     string      `json:"label" yaml:"label"`
	Detail    string      `json:"detail,omitempty" yaml:"detail,omitempty"`
	ChildMode ChildMode   `json:"childMode,omitempty" yaml:"childMode,omitempty"`
	Children  []*NodeSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of nodes in the subtree rooted at s.
func (s *NodeSpec) Count() int {
	if s == nil {
		return 0
	}
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}
