package task

import (
	"fmt"
	"log/slog"
)

// Store holds the authored task graph together with its resolved view.
//
// The store is the single owner of graph state for a session. It is not
// safe for concurrent use; callers that share it across goroutines must
// serialize access.
type Store struct {
	graph Graph // authored, as persisted
	view  Graph // resolved
}

// NewStore creates a store seeded with g. Returns ErrCycle if g has a cycle.
func NewStore(g Graph) (*Store, error) {
	s := &Store{}
	if err := s.Replace(g); err != nil {
		return nil, err
	}
	return s, nil
}

// Graph returns a copy of the authored graph.
func (s *Store) Graph() Graph {
	return s.graph.Clone()
}

// View returns a copy of the resolved graph.
func (s *Store) View() Graph {
	return s.view.Clone()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.view)
}

// Task returns the resolved task with the given id.
func (s *Store) Task(id string) (Task, error) {
	t, ok := s.view[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return t.Clone(), nil
}

// Replace swaps the whole graph, as when a snapshot is loaded.
func (s *Store) Replace(g Graph) error {
	if g == nil {
		g = Graph{}
	}
	view, err := Resolve(g)
	if err != nil {
		return fmt.Errorf("replace graph: %w", err)
	}
	s.view = view
	s.graph = stripDerived(view)
	return nil
}

// Apply reduces intents in order and commits the result. It returns the
// intents that took effect, with generated ids filled in. A batch that would
// introduce a cycle is rejected as a whole and the store is left unchanged.
// Unknown intents are skipped; their errors are returned alongside the
// applied ones.
func (s *Store) Apply(intents ...Intent) ([]Intent, error) {
	view, applied, err := applyAll(s.view, intents)
	if view == nil {
		slog.Warn("intent batch rejected", "count", len(intents), "error", err)
		return nil, err
	}
	s.view = view
	s.graph = stripDerived(view)
	return applied, err
}

func stripDerived(g Graph) Graph {
	out := g.Clone()
	for id, t := range out {
		t.IsBlocked = false
		t.Effective = ""
		out[id] = t
	}
	return out
}
