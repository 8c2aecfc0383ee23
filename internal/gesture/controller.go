// Package gesture turns pointer input over the simulated board into task
// intents. It is an explicit state machine with three states: Idle,
// Dragging and AddDependency.
package gesture

import (
	"fmt"
	"log/slog"

	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// State is the controller's mode.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateAddDependency
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateAddDependency:
		return "add-dependency"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StateIdle
	case "dragging":
		*s = StateDragging
	case "add-dependency":
		*s = StateAddDependency
	default:
		return fmt.Errorf("unknown gesture state %q", b)
	}
	return nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateDragging
	case StateDragging:
		return to == StateIdle || to == StateAddDependency
	case StateAddDependency:
		return to == StateIdle
	default:
		return false
	}
}

// GhostOffset is how far above the subject the spawn target appears.
const GhostOffset = 100

// Simulator is the part of the simulation the controller drives.
type Simulator interface {
	Layout() sim.Layout
	Params() sim.Params
	Node(id string) (*sim.Node, bool)
	Pin(id string, x, y float64) bool
	Unpin(id string)
	Reheat(alpha, target float64)
	SetAlphaTarget(target float64)
	Freeze()
	Resume()
	SpawnHint(id string, x, y float64)
}

// Controller interprets gestures. It only pins, unpins and reads nodes; the
// node set itself belongs to the simulation.
type Controller struct {
	sim      Simulator
	listener Listener
	newID    func() string

	state State

	// Dragging
	dragID    string
	moved     bool
	highlight Highlight

	// AddDependency
	subject        string
	ghostX, ghostY float64

	hoverSuspended bool
}

// NewController wires a controller to a simulation. newID supplies ids for
// tasks spawned from the ghost target.
func NewController(s Simulator, l Listener, newID func() string) *Controller {
	if l == nil {
		l = Funcs{}
	}
	return &Controller{sim: s, listener: l, newID: newID}
}

// State returns the current mode.
func (c *Controller) State() State { return c.state }

// Dragged returns the id of the node being dragged, if any.
func (c *Controller) Dragged() string { return c.dragID }

// Subject returns the task waiting for a dependency in AddDependency mode.
func (c *Controller) Subject() string { return c.subject }

// Ghost returns the spawn target position while in AddDependency mode.
func (c *Controller) Ghost() (x, y float64, ok bool) {
	return c.ghostX, c.ghostY, c.state == StateAddDependency
}

// Highlight returns the zone feedback for the current drag.
func (c *Controller) Highlight() Highlight { return c.highlight }

// Dispatch feeds one event to the current state. It reports whether the
// state accepted the event; ignored events have no effect.
func (c *Controller) Dispatch(ev Event) bool {
	switch c.state {
	case StateIdle:
		return c.idle(ev)
	case StateDragging:
		return c.dragging(ev)
	case StateAddDependency:
		return c.addDependency(ev)
	}
	return false
}

func (c *Controller) transition(to State) {
	if !isAllowedTransition(c.state, to) {
		slog.Error("disallowed gesture transition", "from", c.state, "to", to)
		return
	}
	slog.Debug("gesture transition", "from", c.state, "to", to)
	c.state = to
	c.listener.ModeChanged(to)
}

func (c *Controller) idle(ev Event) bool {
	switch e := ev.(type) {
	case PointerDown:
		n, ok := c.sim.Node(e.NodeID)
		if !ok {
			return false
		}
		c.sim.Pin(n.ID, n.X, n.Y)
		warm := c.sim.Params().AmbientWarm
		c.sim.Reheat(warm, warm)
		c.hoverSuspended = true
		c.dragID, c.moved = n.ID, false
		c.transition(StateDragging)
		return true
	case ClickNode:
		if _, ok := c.sim.Node(e.NodeID); !ok {
			return false
		}
		c.listener.Selected(e.NodeID)
		return true
	case ClickBackground:
		c.listener.Selected("")
		return true
	case Hover:
		if c.hoverSuspended {
			return false
		}
		c.listener.Hovered(e.NodeID)
		return true
	}
	return false
}

func (c *Controller) dragging(ev Event) bool {
	switch e := ev.(type) {
	case PointerMove:
		layout := c.sim.Layout()
		x, y := layout.Clamp(e.X, e.Y)
		if !c.sim.Pin(c.dragID, x, y) {
			c.endDrag()
			c.transition(StateIdle)
			return true
		}
		c.moved = true
		c.setHighlight(c.zoneFeedback(y))
		return true
	case PointerUp:
		c.release()
		return true
	case Cancel:
		c.endDrag()
		c.transition(StateIdle)
		return true
	}
	return false
}

// zoneFeedback lights the zone the dragged node would change status in.
func (c *Controller) zoneFeedback(y float64) Highlight {
	n, ok := c.sim.Node(c.dragID)
	if !ok {
		return Highlight{}
	}
	l := c.sim.Layout()
	complete := n.Task.IsComplete()
	return Highlight{
		Complete:  !complete && y < l.CompleteLine,
		Available: complete && y > l.CompleteLine && y < l.BlockedLine,
		Blocked:   y > l.BlockedLine,
	}
}

func (c *Controller) setHighlight(h Highlight) {
	if h == c.highlight {
		return
	}
	c.highlight = h
	c.listener.Highlight(h)
}

// endDrag restores normal simulation and hover behaviour after a drag.
func (c *Controller) endDrag() {
	c.sim.Unpin(c.dragID)
	c.sim.SetAlphaTarget(c.sim.Params().AlphaTarget)
	c.hoverSuspended = false
	c.setHighlight(Highlight{})
	c.dragID, c.moved = "", false
}

func (c *Controller) release() {
	id, moved := c.dragID, c.moved
	n, ok := c.sim.Node(id)
	c.endDrag()
	if !ok {
		c.transition(StateIdle)
		return
	}

	l := c.sim.Layout()
	y := n.Y
	complete := n.Task.IsComplete()

	var batch []task.Intent
	switch {
	case !complete && y < l.CompleteLine:
		batch = append(batch, task.Complete(id))
	case complete && y > l.CompleteLine:
		batch = append(batch, task.Uncomplete(id))
	}
	if len(batch) > 0 {
		c.listener.Intents(batch)
	}

	if y > l.BlockedLine && moved {
		c.enterAddDependency(id)
		return
	}
	c.transition(StateIdle)
}

func (c *Controller) enterAddDependency(subject string) {
	n, ok := c.sim.Node(subject)
	if !ok {
		c.transition(StateIdle)
		return
	}
	c.sim.Freeze()
	c.subject = subject
	c.ghostX, c.ghostY = c.sim.Layout().Clamp(n.X, n.Y-GhostOffset)
	c.transition(StateAddDependency)
}

func (c *Controller) addDependency(ev Event) bool {
	switch e := ev.(type) {
	case ClickNode:
		if e.NodeID == c.subject {
			return false
		}
		if _, ok := c.sim.Node(e.NodeID); !ok {
			return false
		}
		subject := c.exitAddDependency()
		c.listener.Intents([]task.Intent{task.Block(subject, e.NodeID)})
		return true
	case ClickGhost:
		gx, gy := c.ghostX, c.ghostY
		subject := c.exitAddDependency()
		id := c.newID()
		c.sim.SpawnHint(id, gx, gy)
		c.listener.Intents([]task.Intent{task.Add(id, nil), task.Block(subject, id)})
		return true
	case ClickBackground, Cancel:
		c.exitAddDependency()
		return true
	case Hover:
		c.listener.Hovered(e.NodeID)
		return true
	}
	return false
}

// exitAddDependency is the single exit path from AddDependency mode. It
// resumes the simulation, restores drag handling and clears the ghost.
func (c *Controller) exitAddDependency() string {
	subject := c.subject
	c.sim.Resume()
	c.subject = ""
	c.ghostX, c.ghostY = 0, 0
	c.transition(StateIdle)
	return subject
}
