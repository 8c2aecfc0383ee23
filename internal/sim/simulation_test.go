package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/task"
)

func newTestSim(t *testing.T, g task.Graph) *Simulation {
	t.Helper()
	s := New(DefaultLayout(), DefaultParams(), rand.New(rand.NewSource(42)))
	view, err := task.Resolve(g)
	require.NoError(t, err)
	s.Update(view)
	return s
}

func TestUpdate_NodeLifecycle(t *testing.T) {
	s := newTestSim(t, task.Graph{"a": task.NewTask("a"), "b": task.NewTask("b")})

	a, ok := s.Node("a")
	require.True(t, ok)
	assert.Equal(t, 200.0, a.Y)
	assert.GreaterOrEqual(t, a.X, -200.0)
	assert.Less(t, a.X, 200.0)

	a.X, a.Y = 42, 99
	g := task.Graph{"a": task.NewTask("a"), "c": task.NewTask("c")}
	s.Update(task.MustResolve(g))

	a2, ok := s.Node("a")
	require.True(t, ok)
	assert.Same(t, a, a2, "identity preserved")
	assert.Equal(t, 42.0, a2.X)
	_, ok = s.Node("b")
	assert.False(t, ok, "removed ids dropped")
	assert.Len(t, s.Nodes(), 2)
	assert.Equal(t, DefaultParams().AmbientWarm, s.Alpha())
}

func TestUpdate_LinksRebuilt(t *testing.T) {
	g := task.Graph{
		"a": task.NewTask("a"),
		"b": {ID: "b", DependsOn: []string{"a", "ghost"}},
	}
	s := newTestSim(t, g)

	links := s.Links()
	require.Len(t, links, 1, "links to unknown nodes skipped")
	assert.Equal(t, "a-b", links[0].ID)
	assert.Equal(t, "a", links[0].Source.ID)
	assert.Equal(t, "b", links[0].Target.ID)

	s.Update(task.MustResolve(task.Graph{"a": task.NewTask("a"), "b": task.NewTask("b")}))
	assert.Empty(t, s.Links())
}

func TestSpawnHint(t *testing.T) {
	s := newTestSim(t, task.Graph{"a": task.NewTask("a")})
	s.SpawnHint("n", 10, 5000)

	s.Update(task.MustResolve(task.Graph{"a": task.NewTask("a"), "n": task.NewTask("n")}))
	n, ok := s.Node("n")
	require.True(t, ok)
	assert.Equal(t, 10.0, n.X)
	assert.Equal(t, 500.0, n.Y, "hint clamped to the board")
}

func TestTick_NodesSettleIntoZones(t *testing.T) {
	g := task.Graph{
		"done":  {ID: "done", Priority: 2, Status: task.StatusComplete},
		"open":  {ID: "open", Priority: 3},
		"gated": {ID: "gated", Priority: 3, Status: task.StatusComplete, DependsOn: []string{"open"}},
	}
	params := DefaultParams()
	params.LinkStrength = 0 // zone forces only
	s := New(DefaultLayout(), params, rand.New(rand.NewSource(7)))
	s.Update(task.MustResolve(g))
	s.Step(400)

	l := s.Layout()
	done, _ := s.Node("done")
	open, _ := s.Node("open")
	gated, _ := s.Node("gated")

	assert.Equal(t, ZoneComplete, l.ZoneOf(done.Y), "done at y=%.1f", done.Y)
	assert.Equal(t, ZoneAvailable, l.ZoneOf(open.Y), "open at y=%.1f", open.Y)
	assert.Equal(t, ZoneBlocked, l.ZoneOf(gated.Y), "gated at y=%.1f", gated.Y)
}

func TestTick_StaysInBoundsAndFinite(t *testing.T) {
	g := task.Graph{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		g[id] = task.NewTask(id)
	}
	s := newTestSim(t, g)
	for _, n := range s.Nodes() {
		n.X, n.Y = 0, 200 // all coincident
	}
	s.Step(50)

	l := s.Layout()
	for _, n := range s.Nodes() {
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y), n.ID)
		assert.GreaterOrEqual(t, n.X, l.MinX())
		assert.LessOrEqual(t, n.X, l.MaxX())
		assert.GreaterOrEqual(t, n.Y, l.MinY())
		assert.LessOrEqual(t, n.Y, l.MaxY())
	}
}

func TestAlpha_DecaysTowardTarget(t *testing.T) {
	s := newTestSim(t, task.Graph{"a": task.NewTask("a")})
	before := s.Alpha()
	s.Step(10)
	assert.Less(t, s.Alpha(), before)

	s.Reheat(0.8, 0.8)
	s.Step(10)
	assert.InDelta(t, 0.8, s.Alpha(), 1e-9)

	s.Reheat(0.0005, 0)
	assert.True(t, s.Settled())
}

func TestPin(t *testing.T) {
	s := newTestSim(t, task.Graph{"a": task.NewTask("a"), "b": task.NewTask("b")})

	require.True(t, s.Pin("a", 50, 900))
	s.Step(5)
	a, _ := s.Node("a")
	assert.Equal(t, 50.0, a.X)
	assert.Equal(t, 500.0, a.Y)
	assert.True(t, a.Pinned())

	s.Unpin("a")
	assert.False(t, a.Pinned())
	assert.False(t, s.Pin("zzz", 0, 0))
}

func TestFreezeResume(t *testing.T) {
	s := newTestSim(t, task.Graph{"a": task.NewTask("a"), "b": task.NewTask("b")})
	s.Step(3)
	a, _ := s.Node("a")
	x, y := a.X, a.Y

	s.Freeze()
	assert.True(t, s.Frozen())
	assert.Zero(t, s.Alpha())
	s.Step(20)
	assert.Equal(t, x, a.X)
	assert.Equal(t, y, a.Y)

	// structural change while frozen keeps it frozen
	s.Update(task.MustResolve(task.Graph{"a": task.NewTask("a"), "b": task.NewTask("b"), "c": task.NewTask("c")}))
	assert.Zero(t, s.Alpha())
	c, _ := s.Node("c")
	assert.True(t, c.Pinned())

	s.Resume()
	assert.False(t, s.Frozen())
	assert.Equal(t, DefaultParams().ResumeAlpha, s.Alpha())
	for _, n := range s.Nodes() {
		assert.False(t, n.Pinned(), n.ID)
	}
}

func TestFrame(t *testing.T) {
	g := task.Graph{
		"a": {ID: "a", Title: "A", Priority: 1, Status: task.StatusComplete},
		"b": {ID: "b", Title: "B", Priority: 9, DependsOn: []string{"c"}, IsExternal: true},
		"c": {ID: "c", Title: "C", Priority: 4},
	}
	f := newTestSim(t, g).Frame()

	require.Len(t, f.Nodes, 3)
	require.Len(t, f.Edges, 1)
	require.Len(t, f.Zones, 3)

	byID := map[string]FrameNode{}
	for _, n := range f.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, 50.0, byID["a"].Size)
	assert.Equal(t, ColorComplete, byID["a"].Color)
	assert.Equal(t, 10.0, byID["b"].Size)
	assert.Equal(t, ColorBlocked, byID["b"].Color)
	assert.Equal(t, ShapeSquare, byID["b"].Shape)
	assert.Equal(t, ColorAvailable, byID["c"].Color)
	assert.Equal(t, "c-b", f.Edges[0].ID)
}

func TestNodeSize(t *testing.T) {
	want := map[int]float64{1: 50, 2: 35, 3: 25, 4: 20, 5: 20, 0: 10, 6: 10, -1: 10}
	for p, size := range want {
		assert.Equal(t, size, NodeSize(p), "priority %d", p)
	}
}

func TestLayout_ZoneOf(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, ZoneComplete, l.ZoneOf(149))
	assert.Equal(t, ZoneAvailable, l.ZoneOf(150))
	assert.Equal(t, ZoneAvailable, l.ZoneOf(400))
	assert.Equal(t, ZoneBlocked, l.ZoneOf(401))
}
