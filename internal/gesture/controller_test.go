package gesture

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
)

type recorder struct {
	batches    [][]task.Intent
	highlights []Highlight
	modes      []State
	selected   []string
	hovered    []string
}

func (r *recorder) Intents(b []task.Intent) { r.batches = append(r.batches, b) }
func (r *recorder) Highlight(h Highlight)   { r.highlights = append(r.highlights, h) }
func (r *recorder) ModeChanged(s State)     { r.modes = append(r.modes, s) }
func (r *recorder) Selected(id string)      { r.selected = append(r.selected, id) }
func (r *recorder) Hovered(id string)       { r.hovered = append(r.hovered, id) }

func (r *recorder) intents() []task.Intent {
	var out []task.Intent
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

type fixture struct {
	sim *sim.Simulation
	rec *recorder
	c   *Controller
}

// setup builds A (complete) and B (depends on A, available).
func setup(t *testing.T) *fixture {
	t.Helper()
	g := task.Graph{
		"A": {ID: "A", Title: "A", Priority: 3, Status: task.StatusComplete},
		"B": {ID: "B", Title: "B", Priority: 3, DependsOn: []string{"A"}},
	}
	view, err := task.Resolve(g)
	require.NoError(t, err)

	s := sim.New(sim.DefaultLayout(), sim.DefaultParams(), rand.New(rand.NewSource(1)))
	s.Update(view)
	s.Pin("A", -100, 80)
	s.Unpin("A")
	s.Pin("B", 100, 250)
	s.Unpin("B")

	rec := &recorder{}
	ids := 0
	c := NewController(s, rec, func() string {
		ids++
		return "new" + string(rune('0'+ids))
	})
	return &fixture{sim: s, rec: rec, c: c}
}

func (f *fixture) drag(id string, path ...[2]float64) {
	n, _ := f.sim.Node(id)
	f.c.Dispatch(PointerDown{NodeID: id, X: n.X, Y: n.Y})
	for _, p := range path {
		f.c.Dispatch(PointerMove{X: p[0], Y: p[1]})
	}
	last := path[len(path)-1]
	f.c.Dispatch(PointerUp{X: last[0], Y: last[1]})
}

func TestDragIntoComplete_EmitsSingleComplete(t *testing.T) {
	f := setup(t)

	f.drag("B", [2]float64{100, 200}, [2]float64{100, 120}, [2]float64{100, 90})

	assert.Equal(t, []task.Intent{task.Complete("B")}, f.rec.intents())
	assert.Equal(t, StateIdle, f.c.State())
	b, _ := f.sim.Node("B")
	assert.False(t, b.Pinned())
}

func TestDragStart_PinsAndReheats(t *testing.T) {
	f := setup(t)
	f.sim.Reheat(0.01, 0)

	require.True(t, f.c.Dispatch(PointerDown{NodeID: "B"}))
	assert.Equal(t, StateDragging, f.c.State())
	assert.Equal(t, "B", f.c.Dragged())

	b, _ := f.sim.Node("B")
	assert.True(t, b.Pinned())
	assert.Equal(t, 100.0, b.X, "pinned where it was")
	assert.Equal(t, 0.8, f.sim.Alpha())
	assert.Equal(t, 0.8, f.sim.AlphaTarget())

	assert.False(t, f.c.Dispatch(Hover{NodeID: "A"}), "hover suspended while dragging")
	assert.False(t, f.c.Dispatch(PointerDown{NodeID: "A"}))
}

func TestDragRelease_RestoresAlphaTarget(t *testing.T) {
	f := setup(t)
	f.drag("B", [2]float64{120, 260})

	assert.Empty(t, f.rec.intents(), "same zone, no intent")
	assert.Zero(t, f.sim.AlphaTarget())
	assert.True(t, f.c.Dispatch(Hover{NodeID: "A"}), "hover restored")
}

func TestDragHighlights(t *testing.T) {
	f := setup(t)
	f.c.Dispatch(PointerDown{NodeID: "B"})

	f.c.Dispatch(PointerMove{X: 0, Y: 100})
	assert.Equal(t, Highlight{Complete: true}, f.c.Highlight())

	f.c.Dispatch(PointerMove{X: 0, Y: 450})
	assert.Equal(t, Highlight{Blocked: true}, f.c.Highlight())

	f.c.Dispatch(PointerMove{X: 0, Y: 9999})
	b, _ := f.sim.Node("B")
	assert.Equal(t, 500.0, b.Y, "clamped to bounds")

	f.c.Dispatch(Cancel{})
	assert.Equal(t, Highlight{}, f.c.Highlight())
	assert.Empty(t, f.rec.intents())
}

func TestDragCompleteOut_EmitsUncomplete(t *testing.T) {
	f := setup(t)
	f.c.Dispatch(PointerDown{NodeID: "A"})
	f.c.Dispatch(PointerMove{X: 0, Y: 250})
	assert.Equal(t, Highlight{Available: true}, f.c.Highlight())
	f.c.Dispatch(PointerUp{})

	assert.Equal(t, []task.Intent{task.Uncomplete("A")}, f.rec.intents())
	assert.Equal(t, StateIdle, f.c.State())
}

func TestDragIntoBlocked_EntersAddDependency(t *testing.T) {
	f := setup(t)
	f.drag("B", [2]float64{100, 300}, [2]float64{100, 450})

	assert.Equal(t, StateAddDependency, f.c.State())
	assert.Equal(t, "B", f.c.Subject())
	assert.True(t, f.sim.Frozen())
	assert.Zero(t, f.sim.Alpha())
	assert.Empty(t, f.rec.intents())

	x, y, ok := f.c.Ghost()
	assert.True(t, ok)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 350.0, y)

	assert.False(t, f.c.Dispatch(PointerDown{NodeID: "A"}), "drag handling removed")
	assert.False(t, f.c.Dispatch(ClickNode{NodeID: "B"}), "subject cannot block itself")
}

func TestCompleteNodeIntoBlocked_UncompletesThenEntersMode(t *testing.T) {
	f := setup(t)
	f.drag("A", [2]float64{0, 300}, [2]float64{0, 480})

	assert.Equal(t, []task.Intent{task.Uncomplete("A")}, f.rec.intents())
	assert.Equal(t, StateAddDependency, f.c.State())
	assert.Equal(t, "A", f.c.Subject())
}

func TestStationaryClickInBlockedZone_StaysIdle(t *testing.T) {
	f := setup(t)
	f.sim.Pin("B", 0, 450)

	f.c.Dispatch(PointerDown{NodeID: "B"})
	f.c.Dispatch(PointerUp{})

	assert.Equal(t, StateIdle, f.c.State())
	assert.False(t, f.sim.Frozen())
}

func TestAddDependency_PickBlocker(t *testing.T) {
	f := setup(t)
	f.drag("B", [2]float64{100, 450})

	require.True(t, f.c.Dispatch(ClickNode{NodeID: "A"}))

	assert.Equal(t, [][]task.Intent{{task.Block("B", "A")}}, f.rec.batches)
	assert.Equal(t, StateIdle, f.c.State())
	assert.False(t, f.sim.Frozen())
	assert.Empty(t, f.c.Subject())
	_, _, ok := f.c.Ghost()
	assert.False(t, ok)
}

func TestAddDependency_SpawnFromGhost(t *testing.T) {
	f := setup(t)
	f.drag("B", [2]float64{100, 450})
	gx, gy, _ := f.c.Ghost()

	require.True(t, f.c.Dispatch(ClickGhost{}))

	require.Len(t, f.rec.batches, 1, "add and block arrive as one batch")
	assert.Equal(t, []task.Intent{task.Add("new1", nil), task.Block("B", "new1")}, f.rec.batches[0])
	assert.False(t, f.sim.Frozen())

	// the spawned node appears at the ghost
	g := task.Graph{
		"A":    {ID: "A", Status: task.StatusComplete},
		"B":    {ID: "B", DependsOn: []string{"A", "new1"}},
		"new1": task.NewTask("new1"),
	}
	f.sim.Update(task.MustResolve(g))
	n, ok := f.sim.Node("new1")
	require.True(t, ok)
	assert.Equal(t, gx, n.X)
	assert.Equal(t, gy, n.Y)
}

func TestAddDependency_CancelPaths(t *testing.T) {
	for _, ev := range []Event{ClickBackground{}, Cancel{}} {
		f := setup(t)
		f.drag("B", [2]float64{100, 450})

		require.True(t, f.c.Dispatch(ev))
		assert.Empty(t, f.rec.intents())
		assert.Equal(t, StateIdle, f.c.State())
		assert.False(t, f.sim.Frozen())
		assert.Equal(t, []State{StateDragging, StateAddDependency, StateIdle}, f.rec.modes,
			"mode exited exactly once")
	}
}

func TestIdle_SelectionAndHover(t *testing.T) {
	f := setup(t)

	assert.True(t, f.c.Dispatch(ClickNode{NodeID: "A"}))
	assert.True(t, f.c.Dispatch(ClickBackground{}))
	assert.False(t, f.c.Dispatch(ClickNode{NodeID: "nope"}))
	assert.True(t, f.c.Dispatch(Hover{NodeID: "B"}))
	assert.False(t, f.c.Dispatch(PointerMove{X: 1, Y: 1}))
	assert.False(t, f.c.Dispatch(ClickGhost{}))
	assert.False(t, f.c.Dispatch(PointerDown{NodeID: "nope"}))

	assert.Equal(t, []string{"A", ""}, f.rec.selected)
	assert.Equal(t, []string{"B"}, f.rec.hovered)
}

func TestIsAllowedTransition(t *testing.T) {
	assert.True(t, isAllowedTransition(StateIdle, StateDragging))
	assert.False(t, isAllowedTransition(StateIdle, StateAddDependency))
	assert.True(t, isAllowedTransition(StateDragging, StateAddDependency))
	assert.False(t, isAllowedTransition(StateAddDependency, StateDragging))
}
