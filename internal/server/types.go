package server

import (
	"fmt"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/models"
)

// TaskView is a resolved task with its derived fields exposed.
type TaskView struct {
	task.Task
	IsBlocked       bool        `json:"isBlocked"`
	EffectiveStatus task.Status `json:"effectiveStatus"`
}

// NewTaskView wraps a resolved task.
func NewTaskView(t task.Task) TaskView {
	return TaskView{Task: t, IsBlocked: t.IsBlocked, EffectiveStatus: t.EffectiveStatus()}
}

func newTaskViews(g task.Graph) []TaskView {
	out := make([]TaskView, 0, len(g))
	for _, t := range g.Sorted() {
		out = append(out, NewTaskView(t))
	}
	return out
}

// IntentsRequest is the payload for POST /api/intents
type IntentsRequest struct {
	Intents []task.Intent `json:"intents"`
	Save    bool          `json:"save"` // persist the graph after applying
}

// IntentsResponse reports what a batch did
type IntentsResponse struct {
	Applied []task.Intent `json:"applied"`
	Error   string        `json:"error,omitempty"`
	Tasks   []TaskView    `json:"tasks"`
}

// GestureRequest is the payload for POST /api/gestures
type GestureRequest struct {
	Type   string  `json:"type"`
	NodeID string  `json:"nodeId,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Event converts the request into a gesture event.
func (r GestureRequest) Event() (gesture.Event, error) {
	switch r.Type {
	case "pointerDown":
		return gesture.PointerDown{NodeID: r.NodeID, X: r.X, Y: r.Y}, nil
	case "pointerMove":
		return gesture.PointerMove{X: r.X, Y: r.Y}, nil
	case "pointerUp":
		return gesture.PointerUp{X: r.X, Y: r.Y}, nil
	case "clickNode":
		return gesture.ClickNode{NodeID: r.NodeID}, nil
	case "clickGhost":
		return gesture.ClickGhost{}, nil
	case "clickBackground":
		return gesture.ClickBackground{}, nil
	case "hover":
		return gesture.Hover{NodeID: r.NodeID}, nil
	case "cancel":
		return gesture.Cancel{}, nil
	}
	return nil, fmt.Errorf("unknown gesture type %q", r.Type)
}

// Ghost is the spawn target shown in add-dependency mode
type Ghost struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoardState is the frame plus interaction overlay
type BoardState struct {
	Frame     sim.Frame         `json:"frame"`
	Mode      gesture.State     `json:"mode"`
	Highlight gesture.Highlight `json:"highlight"`
	Selected  string            `json:"selected,omitempty"`
	Hovered   string            `json:"hovered,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Ghost     *Ghost            `json:"ghost,omitempty"`
}

// GestureResponse is the response for POST /api/gestures
type GestureResponse struct {
	Accepted bool       `json:"accepted"`
	Error    string     `json:"error,omitempty"`
	Board    BoardState `json:"board"`
}

// FlushResponse is the response for POST /api/events/flush
type FlushResponse struct {
	Written int `json:"written"`
	Pending int `json:"pending"`
}

// EventsResponse lists queued domain events
type EventsResponse struct {
	Pending []events.DomainEvent `json:"pending"`
}

// LegacySnapshot is the row shape returned by GET /load
type LegacySnapshot struct {
	SchemaVersion int        `json:"schema_version"`
	Snapshot      task.Graph `json:"snapshot"`
}

func newLegacySnapshot(g task.Graph) LegacySnapshot {
	return LegacySnapshot{SchemaVersion: models.CurrentSchemaVersion, Snapshot: g}
}
