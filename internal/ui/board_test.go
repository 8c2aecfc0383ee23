package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// setupBoard returns an 80x24-cell board holding A (complete, top left) and
// B (depends on A, lower right).
func setupBoard(t *testing.T) (BoardModel, *app.Session) {
	t.Helper()
	n := 0
	s := app.NewSession(app.Options{NewID: func() string {
		n++
		return "spawned" + string(rune('0'+n))
	}})
	a := task.NewTask("A")
	a.Title = "Alpha"
	a.Status = task.StatusComplete
	b := task.NewTask("B")
	b.Title = "Beta"
	b.DependsOn = []string{"A"}
	require.NoError(t, s.Replace(task.Graph{"A": a, "B": b}))

	place(s, "A", -600, 100)
	place(s, "B", 600, 300)

	m := NewBoard(s, BoardOptions{FPS: 30})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24 + chromeRows})
	return m, s
}

func place(s *app.Session, id string, x, y float64) {
	s.Simulation().Pin(id, x, y)
	s.Simulation().Unpin(id)
}

func update(t *testing.T, m BoardModel, msg tea.Msg) BoardModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(BoardModel)
	require.True(t, ok)
	return bm
}

func mouse(m BoardModel, action tea.MouseAction, col, row int) tea.MouseMsg {
	button := tea.MouseButtonNone
	if action == tea.MouseActionPress {
		button = tea.MouseButtonLeft
	}
	return tea.MouseMsg{X: col, Y: row + 1, Action: action, Button: button}
}

func cellOf(m BoardModel, s *app.Session, id string) (int, int) {
	n, _ := s.Simulation().Node(id)
	return m.projection().toCell(n.X, n.Y)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestProjection_RoundTrip(t *testing.T) {
	m, _ := setupBoard(t)
	p := m.projection()
	require.True(t, p.valid())

	for _, c := range [][2]int{{0, 0}, {79, 23}, {40, 12}, {3, 17}} {
		x, y := p.toBoard(c[0], c[1])
		col, row := p.toCell(x, y)
		assert.Equal(t, c[0], col)
		assert.Equal(t, c[1], row)
	}

	x, y := p.toBoard(0, 0)
	assert.Equal(t, -700.0, x)
	assert.Equal(t, 0.0, y)
}

func TestProjection_NodeAt(t *testing.T) {
	m, s := setupBoard(t)
	p := m.projection()
	frame := s.Frame()

	col, row := cellOf(m, s, "B")
	id, ok := p.nodeAt(frame, col, row)
	require.True(t, ok)
	assert.Equal(t, "B", id)

	id, ok = p.nodeAt(frame, col+1, row)
	assert.True(t, ok)
	assert.Equal(t, "B", id)

	_, ok = p.nodeAt(frame, 40, 12)
	assert.False(t, ok)
}

func TestBoard_DragIntoCompleteZone(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "B")

	m = update(t, m, mouse(m, tea.MouseActionPress, col, row))
	assert.Equal(t, gesture.StateDragging, s.Mode())
	m = update(t, m, mouse(m, tea.MouseActionMotion, col, 0))
	assert.True(t, s.Highlight().Complete)
	update(t, m, mouse(m, tea.MouseActionRelease, col, 0))

	assert.Equal(t, gesture.StateIdle, s.Mode())
	b, err := s.Task("B")
	require.NoError(t, err)
	assert.Equal(t, task.StatusComplete, b.Status)
}

func TestBoard_ReloadKeepsUnsavedEdits(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "B")
	m = update(t, m, mouse(m, tea.MouseActionPress, col, row))
	m = update(t, m, mouse(m, tea.MouseActionMotion, col, 0))
	m = update(t, m, mouse(m, tea.MouseActionRelease, col, 0))
	require.True(t, s.Unsaved())

	for _, msg := range []tea.Msg{keyRunes("r"), ReloadMsg{}} {
		m = update(t, m, msg)
		assert.NoError(t, m.err)
		assert.Contains(t, m.View(), "unsaved changes")

		b, err := s.Task("B")
		require.NoError(t, err)
		assert.Equal(t, task.StatusComplete, b.Status)
		assert.Len(t, s.PendingEvents(), 1)
	}
}

func TestBoard_ClickSelects(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "A")

	m = update(t, m, mouse(m, tea.MouseActionPress, col, row))
	m = update(t, m, mouse(m, tea.MouseActionRelease, col, row))
	assert.Equal(t, "A", s.Selected())
	assert.Contains(t, m.View(), "Alpha")

	m = update(t, m, mouse(m, tea.MouseActionPress, 40, 12))
	assert.Empty(t, s.Selected())
}

func TestBoard_Hover(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "B")

	m = update(t, m, mouse(m, tea.MouseActionMotion, col, row))
	assert.Equal(t, "B", s.Hovered())
	update(t, m, mouse(m, tea.MouseActionMotion, 40, 12))
	assert.Empty(t, s.Hovered())
}

func TestBoard_DragIntoBlockedZoneThenClickGhost(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "B")

	m = update(t, m, mouse(m, tea.MouseActionPress, col, row))
	m = update(t, m, mouse(m, tea.MouseActionMotion, col, 23))
	m = update(t, m, mouse(m, tea.MouseActionRelease, col, 23))
	require.Equal(t, gesture.StateAddDependency, s.Mode())
	assert.Contains(t, m.View(), "new blocker")

	gx, gy, ok := s.Gestures().Ghost()
	require.True(t, ok)
	gc, gr := m.projection().toCell(gx, gy)
	update(t, m, mouse(m, tea.MouseActionPress, gc, gr))

	assert.Equal(t, gesture.StateIdle, s.Mode())
	b, err := s.Task("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "spawned1"}, b.DependsOn)
}

func TestBoard_EscCancelsAddDependency(t *testing.T) {
	m, s := setupBoard(t)
	col, row := cellOf(m, s, "B")

	m = update(t, m, mouse(m, tea.MouseActionPress, col, row))
	m = update(t, m, mouse(m, tea.MouseActionMotion, col, 23))
	m = update(t, m, mouse(m, tea.MouseActionRelease, col, 23))
	require.Equal(t, gesture.StateAddDependency, s.Mode())

	update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, gesture.StateIdle, s.Mode())
	assert.False(t, s.Simulation().Frozen())
	assert.Len(t, s.Graph(), 2)
}

func TestBoard_AddTaskFromKeyboard(t *testing.T) {
	m, s := setupBoard(t)

	m = update(t, m, keyRunes("a"))
	require.True(t, m.adding)
	m = update(t, m, keyRunes("Write docs"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)

	var titles []string
	for _, tk := range s.Graph() {
		titles = append(titles, tk.Title)
	}
	assert.Contains(t, titles, "Write docs")
}

func TestBoard_Keys(t *testing.T) {
	m, _ := setupBoard(t)

	assert.False(t, m.showLabels)
	m = update(t, m, keyRunes("l"))
	assert.True(t, m.showLabels)
	assert.Contains(t, m.View(), "Beta")

	m = update(t, m, keyRunes(" "))
	assert.True(t, m.paused)
	assert.Contains(t, m.View(), "paused")

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoard_SaveWithoutStoreReportsError(t *testing.T) {
	m, _ := setupBoard(t)
	m = update(t, m, keyRunes("s"))
	assert.ErrorIs(t, m.err, app.ErrNoSnapshotStore)
	assert.Contains(t, m.View(), "snapshot store")
}

func TestBoard_TickAdvancesSimulation(t *testing.T) {
	m, s := setupBoard(t)
	before, _ := s.Simulation().Node("B")
	y := before.Y

	next, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd)
	after, _ := s.Simulation().Node("B")
	assert.NotEqual(t, y, after.Y)

	m = next.(BoardModel)
	m = update(t, m, keyRunes(" "))
	after, _ = s.Simulation().Node("B")
	y = after.Y
	update(t, m, tickMsg{})
	assert.Equal(t, y, after.Y)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
