package flowchart

import "errors"

var (
	// ErrMalformedTree means the payload has no usable root, or a node is
	// missing a required field.
	ErrMalformedTree = errors.New("malformed flowchart tree")

	// ErrDuplicateID means two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrUnknownNode is returned when a toggle names a node the tree does not have.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInconsistentState reports a facet combination no transition can produce.
	ErrInconsistentState = errors.New("inconsistent node state")
)
