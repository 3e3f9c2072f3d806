package flowchart

// Controller owns the "all expanded" flag for one mounted tree. Every mount
// gets its own Controller; there is no package-level state.
type Controller struct {
	tree        *Tree
	allExpanded bool
}

// NewController creates a Controller for t. The flag starts false, matching
// the collapsed initial state of nested sections.
func NewController(t *Tree) *Controller {
	return &Controller{tree: t}
}

// Tree returns the controlled tree.
func (c *Controller) Tree() *Tree { return c.tree }

// AllExpanded reports the current bulk flag.
func (c *Controller) AllExpanded() bool { return c.allExpanded }

// ToggleAll flips the bulk flag and drives every node to match it. Manual
// toggles made since the previous bulk operation are overridden.
func (c *Controller) ToggleAll() bool {
	if c.allExpanded {
		c.CollapseAll()
	} else {
		c.ExpandAll()
	}
	return c.allExpanded
}

// ExpandAll expands every section at every depth and every detail.
func (c *Controller) ExpandAll() {
	c.tree.Walk(func(n *Node) {
		if n.IsSection() {
			setChildrenExpanded(n, true)
		}
		setDetailExpanded(n, true)
	})
	c.allExpanded = true
}

// CollapseAll hides every detail, then collapses every section below the
// root. Details are cleared first so no expanded detail is ever left inside
// a collapsed section.
func (c *Controller) CollapseAll() {
	c.tree.Walk(func(n *Node) {
		setDetailExpanded(n, false)
	})
	c.tree.Walk(func(n *Node) {
		if n.IsSection() && n.Depth >= 1 {
			setChildrenExpanded(n, false)
		}
	})
	c.allExpanded = false
}
