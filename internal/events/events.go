// Package events translates applied intents into domain events for the
// append-only event log.
package events

import (
	"fmt"
	"time"

	"github.com/josephgoksu/TaskTree/internal/task"
)

// Type is the kind of record written to the event log.
type Type string

const (
	TypeCreate Type = "create"
	TypeUpdate Type = "update"
	TypeDelete Type = "delete"
)

// TaskUpdate is a sparse change to one task. Nil fields are untouched.
type TaskUpdate struct {
	ID          string       `json:"id"`
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Priority    *int         `json:"priority,omitempty"`
	Status      *task.Status `json:"status,omitempty"`
	IsExternal  *bool        `json:"isExternal,omitempty"`
	AddDeps     []string     `json:"addDeps,omitempty"`
	RemoveDeps  []string     `json:"removeDeps,omitempty"`
}

// DomainEvent is one create, update or delete record.
type DomainEvent struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	Task       *task.Task  `json:"task,omitempty"`
	TaskUpdate *TaskUpdate `json:"task_update,omitempty"`
	At         time.Time   `json:"at"`
}

// Translate maps intents onto domain events. Every intent yields exactly one
// event; an unknown intent kind is an error and nothing is returned.
func Translate(intents []task.Intent) ([]DomainEvent, error) {
	now := time.Now().UTC()
	out := make([]DomainEvent, 0, len(intents))

	for _, in := range intents {
		ev := DomainEvent{ID: in.ID, At: now}

		switch in.Kind {
		case task.IntentAdd:
			t := task.NewTask(in.ID)
			if in.Task != nil {
				if in.ID == "" {
					t.ID = in.Task.ID
				}
				t = mergePartial(t, in.Task)
			}
			ev.ID = t.ID
			ev.Type = TypeCreate
			ev.Task = &t
		case task.IntentDelete:
			ev.Type = TypeDelete
		default:
			upd, err := update(in)
			if err != nil {
				return nil, err
			}
			ev.Type = TypeUpdate
			ev.TaskUpdate = upd
		}
		out = append(out, ev)
	}
	return out, nil
}

func update(in task.Intent) (*TaskUpdate, error) {
	u := &TaskUpdate{ID: in.ID}
	switch in.Kind {
	case task.IntentComplete:
		s := task.StatusComplete
		u.Status = &s
	case task.IntentUncomplete:
		s := task.StatusNotStarted
		u.Status = &s
	case task.IntentSetTitle:
		u.Title = &in.Text
	case task.IntentSetDescription:
		u.Description = &in.Text
	case task.IntentSetPriority:
		u.Priority = &in.Priority
	case task.IntentSetIsExternal:
		u.IsExternal = &in.External
	case task.IntentBlock:
		u.AddDeps = []string{in.BlockerID}
	case task.IntentUnblock:
		u.RemoveDeps = []string{in.BlockerID}
	default:
		return nil, fmt.Errorf("translate %q: %w", in.Kind, task.ErrUnknownIntent)
	}
	return u, nil
}

// mergePartial builds the created task the same way the reducer does, by
// replaying the partial as an add against an empty graph.
func mergePartial(t task.Task, p *task.Partial) task.Task {
	g, err := task.Apply(task.Graph{}, task.Add(t.ID, p))
	if err != nil {
		return t
	}
	return g[t.ID]
}
