package sim

import "github.com/josephgoksu/TaskTree/internal/task"

// Node is the simulated body of one task.
type Node struct {
	ID   string
	Task task.Task // resolved view copy

	X, Y   float64
	VX, VY float64

	// Pinned position; nil when free.
	FX, FY *float64
}

// Pinned reports whether the node is fixed in place.
func (n *Node) Pinned() bool {
	return n.FX != nil || n.FY != nil
}

func (n *Node) pin(x, y float64) {
	n.X, n.Y = x, y
	n.FX, n.FY = &x, &y
}

func (n *Node) unpin() {
	n.FX, n.FY = nil, nil
}

// Link is a dependency edge from Source (the dependency) to Target
// (the dependent task).
type Link struct {
	ID     string
	Source *Node
	Target *Node
}

// LinkID returns the identifier of the edge from dependencyID to dependentID.
func LinkID(dependencyID, dependentID string) string {
	return dependencyID + "-" + dependentID
}
