package task

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Status is the completion state of a task as authored by the user.
type Status string

const (
	StatusNotStarted Status = "not-started" // Default for new tasks
	StatusComplete   Status = "complete"    // Marked done by the user
)

// legacyNotStarted is how older snapshots spell StatusNotStarted.
const legacyNotStarted = "not started"

// ParseStatus converts a raw status string into a Status.
// Unknown values fall back to StatusNotStarted.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusComplete):
		return StatusComplete
	case string(StatusNotStarted), legacyNotStarted, "":
		return StatusNotStarted
	default:
		return StatusNotStarted
	}
}

// UnmarshalText accepts both the current and the legacy spelling.
func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// Default values applied when a task is created without explicit fields.
const (
	DefaultTitle    = "Untitled task"
	DefaultPriority = 3

	MinPriority = 1
	MaxPriority = 5
)

// Task is a unit of work in the dependency graph.
//
// IsBlocked and Effective are derived by Resolve and never persisted.
type Task struct {
	ID          string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Priority    int      `json:"priority" yaml:"priority" toml:"priority"`
	Status      Status   `json:"status" yaml:"status" toml:"status" validate:"omitempty,oneof=not-started complete"`
	DependsOn   []string `json:"dependsOn" yaml:"dependsOn" toml:"dependsOn"`
	IsExternal  bool     `json:"isExternal" yaml:"isExternal" toml:"isExternal"`

	// Computed fields (view only)
	IsBlocked bool   `json:"-" yaml:"-" toml:"-"`
	Effective Status `json:"-" yaml:"-" toml:"-"`
}

// NewTask returns a task populated with the defaults used by the add intent.
func NewTask(id string) Task {
	return Task{
		ID:        id,
		Title:     DefaultTitle,
		Priority:  DefaultPriority,
		Status:    StatusNotStarted,
		DependsOn: []string{},
		Effective: StatusNotStarted,
	}
}

// IsComplete reports whether the task is complete in the resolved view.
func (t Task) IsComplete() bool {
	return t.EffectiveStatus() == StatusComplete
}

// EffectiveStatus returns the view status, falling back to the authored
// status on tasks that have not been through Resolve.
func (t Task) EffectiveStatus() Status {
	if t.Effective != "" {
		return t.Effective
	}
	if t.IsBlocked {
		return StatusNotStarted
	}
	return ParseStatus(string(t.Status))
}

// HasPriority reports whether Priority is inside the 1-5 range.
func (t Task) HasPriority() bool {
	return t.Priority >= MinPriority && t.Priority <= MaxPriority
}

// DependsOnID reports whether id is one of the task's dependencies.
func (t Task) DependsOnID(id string) bool {
	return slices.Contains(t.DependsOn, id)
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.DependsOn = slices.Clone(t.DependsOn)
	if c.DependsOn == nil {
		c.DependsOn = []string{}
	}
	return c
}

// Validate checks if the task has the fields the graph relies on.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidTask)
	}
	if len(t.Title) > 200 {
		return fmt.Errorf("%w: title too long (max 200 chars)", ErrInvalidTask)
	}
	return nil
}

// Partial carries the optional fields an add intent may override.
type Partial struct {
	ID          string   `json:"id,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Status      *Status  `json:"status,omitempty"`
	DependsOn   []string `json:"dependsOn,omitempty"`
	IsExternal  *bool    `json:"isExternal,omitempty"`
}

// mergeInto overlays the set fields of p onto t.
func (p *Partial) mergeInto(t Task) Task {
	if p == nil {
		return t
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = ParseStatus(string(*p.Status))
	}
	if p.DependsOn != nil {
		t.DependsOn = dedupe(p.DependsOn)
	}
	if p.IsExternal != nil {
		t.IsExternal = *p.IsExternal
	}
	return t
}

// Graph maps task ids to tasks.
type Graph map[string]Task

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for id, t := range g {
		out[id] = t.Clone()
	}
	return out
}

// IDs returns the task ids in sorted order.
func (g Graph) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Sorted returns the tasks ordered by id.
func (g Graph) Sorted() []Task {
	out := make([]Task, 0, len(g))
	for _, id := range g.IDs() {
		out = append(out, g[id])
	}
	return out
}

// Dependents returns the ids of tasks that depend on id, sorted.
func (g Graph) Dependents(id string) []string {
	var out []string
	for _, tid := range g.IDs() {
		if g[tid].DependsOnID(id) {
			out = append(out, tid)
		}
	}
	return out
}

// UnmarshalJSON fills in task ids from the map keys when the payload omits them.
func (g *Graph) UnmarshalJSON(b []byte) error {
	var raw map[string]Task
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = FromMap(raw)
	return nil
}

// FromMap normalizes a decoded id->task map into a Graph.
func FromMap(raw map[string]Task) Graph {
	out := make(Graph, len(raw))
	for id, t := range raw {
		if t.ID == "" {
			t.ID = id
		}
		t.Status = ParseStatus(string(t.Status))
		if t.DependsOn == nil {
			t.DependsOn = []string{}
		}
		out[id] = t
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
