package gesture

// Event is an input the controller can dispatch.
type Event interface {
	event()
}

// PointerDown starts a press on a node.
type PointerDown struct {
	NodeID string  `json:"nodeId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PointerMove is one movement sample while the pointer is held.
type PointerMove struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerUp releases the pointer.
type PointerUp struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickNode is a click on a task node.
type ClickNode struct {
	NodeID string `json:"nodeId"`
}

// ClickGhost is a click on the spawn target shown in add-dependency mode.
type ClickGhost struct{}

// ClickBackground is a click on empty board space.
type ClickBackground struct{}

// Hover reports the node under the pointer; an empty NodeID ends the hover.
type Hover struct {
	NodeID string `json:"nodeId"`
}

// Cancel aborts the current gesture without mutating anything.
type Cancel struct{}

func (PointerDown) event()     {}
func (PointerMove) event()     {}
func (PointerUp) event()       {}
func (ClickNode) event()       {}
func (ClickGhost) event()      {}
func (ClickBackground) event() {}
func (Hover) event()           {}
func (Cancel) event()          {}
