package task

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/josephgoksu/TaskTree/internal/util"
)

// IDGenerator produces ids for tasks created without one.
var IDGenerator = util.NewID

// Apply returns the graph produced by applying in to g. g should be resolved
// so that guarded intents see current derived state; g is never modified.
//
// Expected invalid actions (completing a blocked task, self-dependency,
// acting on a missing task) leave the graph unchanged without an error.
// An unknown intent kind returns the unchanged graph and ErrUnknownIntent.
func Apply(g Graph, in Intent) (Graph, error) {
	out, _, _, err := reduce(g, in)
	return out, err
}

// ApplyAll folds intents over g left-to-right, re-resolving after every step
// so later intents observe the effects of earlier ones. Unknown intents are
// skipped and reported together; a cycle aborts the batch.
//
// The internal variant also returns the intents that changed the graph.
// Refused and no-op intents are left out so they never reach the event log.
func ApplyAll(g Graph, intents []Intent) (Graph, error) {
	out, _, err := applyAll(g, intents)
	return out, err
}

func applyAll(g Graph, intents []Intent) (Graph, []Intent, error) {
	cur, err := Resolve(g)
	if err != nil {
		return nil, nil, err
	}

	applied := make([]Intent, 0, len(intents))
	var skipped []error
	for _, in := range intents {
		next, effective, changed, err := reduce(cur, in)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if !changed {
			continue
		}
		next, err = Resolve(next)
		if err != nil {
			return nil, nil, fmt.Errorf("apply %s: %w", in, err)
		}
		cur = next
		applied = append(applied, effective)
	}
	return cur, applied, errors.Join(skipped...)
}

// reduce applies one intent and returns the intent as it took effect, with a
// generated id filled in for add. changed is false when the graph is left as
// it was.
func reduce(g Graph, in Intent) (out Graph, effective Intent, changed bool, err error) {
	if !in.Kind.Known() {
		slog.Error("unknown intent", "kind", in.Kind, "id", in.ID)
		return g.Clone(), in, false, fmt.Errorf("%w: %q", ErrUnknownIntent, in.Kind)
	}

	if in.Kind == IntentAdd {
		return add(g, in)
	}

	subject, ok := g[in.ID]
	if !ok {
		slog.Debug("intent subject missing", "kind", in.Kind, "id", in.ID)
		return g.Clone(), in, false, nil
	}

	out = g.Clone()
	t := subject.Clone()

	switch in.Kind {
	case IntentComplete:
		if subject.IsBlocked {
			slog.Warn("refusing to complete blocked task", "id", in.ID)
			return out, in, false, nil
		}
		t.Status = StatusComplete
	case IntentUncomplete:
		t.Status = StatusNotStarted
	case IntentSetTitle:
		t.Title = in.Text
	case IntentSetDescription:
		t.Description = in.Text
	case IntentSetPriority:
		t.Priority = in.Priority
	case IntentSetIsExternal:
		t.IsExternal = in.External
	case IntentBlock:
		if in.BlockerID == "" || in.BlockerID == in.ID {
			slog.Debug("ignoring self or empty dependency", "id", in.ID, "blocker", in.BlockerID)
			return out, in, false, nil
		}
		if !t.DependsOnID(in.BlockerID) {
			t.DependsOn = append(t.DependsOn, in.BlockerID)
		}
	case IntentUnblock:
		t.DependsOn = slices.DeleteFunc(t.DependsOn, func(dep string) bool {
			return dep == in.BlockerID
		})
	case IntentDelete:
		delete(out, in.ID)
		for id, other := range out {
			if other.DependsOnID(in.ID) {
				other.DependsOn = slices.DeleteFunc(other.DependsOn, func(dep string) bool {
					return dep == in.ID
				})
				out[id] = other
			}
		}
		return out, in, true, nil
	}

	if sameAuthored(subject, t) {
		return out, in, false, nil
	}
	out[in.ID] = t
	return out, in, true, nil
}

// sameAuthored reports whether a and b differ in no persisted field.
func sameAuthored(a, b Task) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Priority == b.Priority &&
		ParseStatus(string(a.Status)) == ParseStatus(string(b.Status)) &&
		a.IsExternal == b.IsExternal &&
		slices.Equal(a.DependsOn, b.DependsOn)
}

func add(g Graph, in Intent) (Graph, Intent, bool, error) {
	id := in.ID
	if id == "" && in.Task != nil {
		id = in.Task.ID
	}
	if id == "" {
		id = IDGenerator()
	}
	in.ID = id

	t := in.Task.mergeInto(NewTask(id))
	t.ID = id
	t.IsBlocked = false
	t.DependsOn = slices.DeleteFunc(t.DependsOn, func(dep string) bool { return dep == id })

	out := g.Clone()
	if _, exists := out[id]; exists {
		slog.Warn("add replaces existing task", "id", id)
	}
	out[id] = t
	return out, in, true, nil
}
