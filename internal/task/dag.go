package task

import (
	"fmt"
	"strings"
)

// traversal holds the result of one dependency-first walk over a graph.
type traversal struct {
	deep  map[string]bool // deep-completeness per task id
	order []string        // dependencies before dependents
}

type frame struct {
	id   string
	next int
}

// walk visits every task with an explicit stack, computing deep-completeness
// and a post-order. Dependencies that are not in the graph are skipped.
func walk(g Graph) (*traversal, error) {
	tr := &traversal{
		deep:  make(map[string]bool, len(g)),
		order: make([]string, 0, len(g)),
	}
	visiting := make(map[string]bool)

	for _, root := range g.IDs() {
		if root == "" {
			return nil, fmt.Errorf("%w: task ID cannot be empty", ErrInvalidTask)
		}
		if _, done := tr.deep[root]; done {
			continue
		}

		stack := []frame{{id: root}}
		visiting[root] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g[top.id].DependsOn

			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++

				if _, ok := g[dep]; !ok {
					continue
				}
				if _, done := tr.deep[dep]; done {
					continue
				}
				if visiting[dep] {
					return nil, cycleError(stack, dep)
				}
				visiting[dep] = true
				stack = append(stack, frame{id: dep})
				continue
			}

			t := g[top.id]
			complete := ParseStatus(string(t.Status)) == StatusComplete
			for _, dep := range t.DependsOn {
				if _, ok := g[dep]; ok && !tr.deep[dep] {
					complete = false
					break
				}
			}
			tr.deep[top.id] = complete
			tr.order = append(tr.order, top.id)
			delete(visiting, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	return tr, nil
}

func cycleError(stack []frame, dep string) error {
	path := make([]string, 0, len(stack)+1)
	for i, f := range stack {
		if f.id == dep {
			for _, on := range stack[i:] {
				path = append(path, on.id)
			}
			break
		}
	}
	path = append(path, dep)
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(path, " -> "))
}

// Resolve returns a copy of g with dependencies deduplicated and the derived
// fields recomputed. A task is blocked when any existing dependency is not
// deep-complete; blocked tasks show as not started in the view while their
// authored status is kept. The input graph is never modified.
func Resolve(g Graph) (Graph, error) {
	out := make(Graph, len(g))
	for id, t := range g {
		c := t.Clone()
		c.DependsOn = dedupe(c.DependsOn)
		c.Status = ParseStatus(string(c.Status))
		out[id] = c
	}

	tr, err := walk(out)
	if err != nil {
		return nil, err
	}

	for id, t := range out {
		t.IsBlocked = false
		for _, dep := range t.DependsOn {
			if _, ok := out[dep]; ok && !tr.deep[dep] {
				t.IsBlocked = true
				break
			}
		}
		if t.IsBlocked {
			t.Effective = StatusNotStarted
		} else {
			t.Effective = t.Status
		}
		out[id] = t
	}
	return out, nil
}

// MustResolve is Resolve for graphs known to be acyclic. It panics on error.
func MustResolve(g Graph) Graph {
	out, err := Resolve(g)
	if err != nil {
		panic(err)
	}
	return out
}

// DeepComplete reports whether id and everything it transitively depends on
// is complete.
func DeepComplete(g Graph, id string) (bool, error) {
	if _, ok := g[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	tr, err := walk(g)
	if err != nil {
		return false, err
	}
	return tr.deep[id], nil
}

// VerifyDAG checks if the graph is a valid Directed Acyclic Graph.
// Dependencies on ids outside the graph are ignored.
func VerifyDAG(g Graph) error {
	_, err := walk(g)
	return err
}

// TopologicalSort returns tasks in dependency order (dependencies first).
// Returns error if cycle detected.
func TopologicalSort(g Graph) ([]Task, error) {
	tr, err := walk(g)
	if err != nil {
		return nil, err
	}
	sorted := make([]Task, 0, len(tr.order))
	for _, id := range tr.order {
		sorted = append(sorted, g[id])
	}
	return sorted, nil
}
