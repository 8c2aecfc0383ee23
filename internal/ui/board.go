package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/logger"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// Rows taken by the header, the status line and the help bar.
const chromeRows = 3

// BoardOptions configures the terminal board.
type BoardOptions struct {
	FPS        int
	ShowLabels bool
	// OnSaved is called after the board writes the snapshot.
	OnSaved func()
}

type tickMsg time.Time

// ReloadMsg asks the board to reload the snapshot from its store.
type ReloadMsg struct{}

// BoardModel is the bubbletea model of the interactive board. Mouse input
// becomes gesture events; ticks advance the simulation.
type BoardModel struct {
	session *app.Session
	opts    BoardOptions

	keys  keyMap
	help  help.Model
	input textinput.Model

	width, height int
	showLabels    bool
	paused        bool
	adding        bool

	// pointer state for the current press
	pressed string
	moved   bool

	status string
	err    error
}

// NewBoard creates the board model for session.
func NewBoard(session *app.Session, opts BoardOptions) BoardModel {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 120
	ti.Width = 40

	return BoardModel{
		session:    session,
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		input:      ti,
		showLabels: opts.ShowLabels,
		width:      80,
		height:     24,
	}
}

// RunBoard runs the board full screen until the user quits. reload, when not
// nil, receives a function that triggers a snapshot reload from another
// goroutine.
func RunBoard(session *app.Session, opts BoardOptions, reload func(func())) error {
	p := tea.NewProgram(NewBoard(session, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if reload != nil {
		reload(func() { p.Send(ReloadMsg{}) })
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board error: %w", err)
	}
	return nil
}

func (m BoardModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m BoardModel) Init() tea.Cmd {
	return m.tick()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if !m.paused {
			m.session.Tick()
		}
		return m, m.tick()

	case ReloadMsg:
		m.reload()
		return m, nil

	case tea.MouseMsg:
		if m.adding {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.session.Dispatch(gesture.Cancel{})
		m.pressed, m.moved = "", false
		m.status = ""
	case key.Matches(msg, m.keys.Labels):
		m.showLabels = !m.showLabels
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m BoardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title != "" {
			m.apply(task.Add("", &task.Partial{Title: &title}))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleMouse turns terminal mouse reports into gesture events.
func (m *BoardModel) handleMouse(msg tea.MouseMsg) {
	proj := m.projection()
	if !proj.valid() {
		return
	}
	col, row := msg.X, msg.Y-1 // header row
	if row < 0 || row >= proj.rows {
		return
	}
	x, y := proj.toBoard(col, row)
	frame := m.session.Frame()
	id, onNode := proj.nodeAt(frame, col, row)
	if msg.Action != tea.MouseActionMotion {
		logger.SetLastEvent(fmt.Sprintf("%s %.0f,%.0f %s", msg.String(), x, y, id))
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.session.Mode() == gesture.StateAddDependency {
			gx, gy, _ := m.session.Gestures().Ghost()
			switch {
			case proj.onGhost(gx, gy, col, row):
				m.session.Dispatch(gesture.ClickGhost{})
			case onNode:
				m.session.Dispatch(gesture.ClickNode{NodeID: id})
			default:
				m.session.Dispatch(gesture.ClickBackground{})
			}
			m.reportBatch()
			return
		}
		if !onNode {
			m.session.Dispatch(gesture.ClickBackground{})
			return
		}
		m.session.Dispatch(gesture.PointerDown{NodeID: id, X: x, Y: y})
		m.pressed, m.moved = id, false

	case tea.MouseActionMotion:
		if m.pressed != "" {
			m.session.Dispatch(gesture.PointerMove{X: x, Y: y})
			m.moved = true
			return
		}
		hovered := ""
		if onNode {
			hovered = id
		}
		if hovered != m.session.Hovered() {
			m.session.Dispatch(gesture.Hover{NodeID: hovered})
		}

	case tea.MouseActionRelease:
		if m.pressed == "" {
			return
		}
		pressed, moved := m.pressed, m.moved
		m.pressed, m.moved = "", false
		m.session.Dispatch(gesture.PointerUp{X: x, Y: y})
		if !moved {
			m.session.Dispatch(gesture.ClickNode{NodeID: pressed})
		}
		m.reportBatch()
		if m.session.Mode() == gesture.StateAddDependency {
			m.status = "pick a blocker, or click ◌ to create one (esc cancels)"
		}
	}
}

func (m *BoardModel) apply(intents ...task.Intent) {
	_, err := m.session.Apply(context.Background(), intents...)
	m.setErr(err)
}

// reportBatch surfaces the result of the last gesture batch.
func (m *BoardModel) reportBatch() {
	m.status = ""
	m.setErr(m.session.LastError())
}

func (m *BoardModel) setErr(err error) {
	m.err = err
	if errors.Is(err, task.ErrCycle) {
		m.status = "that dependency would create a cycle"
	}
}

func (m *BoardModel) save() {
	ctx := context.Background()
	if err := m.session.Save(ctx); err != nil {
		m.setErr(err)
		return
	}
	if m.opts.OnSaved != nil {
		m.opts.OnSaved()
	}
	if _, err := m.session.FlushEvents(ctx); err != nil {
		slog.Debug("flush events", "error", err)
	}
	m.err = nil
	m.status = fmt.Sprintf("saved %d tasks", len(m.session.Graph()))
}

func (m *BoardModel) reload() {
	m.session.Dispatch(gesture.Cancel{})
	m.pressed, m.moved = "", false
	if err := m.session.Reload(context.Background()); err != nil {
		if errors.Is(err, app.ErrUnsavedChanges) {
			m.err = nil
			m.status = "unsaved changes, press s to save before reloading"
			return
		}
		m.setErr(err)
		return
	}
	m.err = nil
	m.status = "reloaded"
}

func (m BoardModel) projection() projection {
	return projection{
		layout: m.session.Simulation().Layout(),
		cols:   m.width,
		rows:   m.height - chromeRows,
	}
}

func (m BoardModel) View() string {
	var sb strings.Builder

	counts := m.counts()
	header := StyleHeader.Render("TaskTree") + StyleSubtle.Render(fmt.Sprintf(
		" %d tasks · %d complete · %d blocked · %s", counts[0], counts[1], counts[2], m.session.Mode()))
	if m.paused {
		header += StyleWarning.Render(" · paused")
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	proj := m.projection()
	if proj.valid() {
		frame := m.session.Frame()
		c := newCanvas(proj, frame, m.session.Highlight())
		gx, gy, ghost := m.session.Gestures().Ghost()
		c.draw(frame, decorations{
			highlight:  m.session.Highlight(),
			selected:   m.session.Selected(),
			hovered:    m.session.Hovered(),
			dragged:    m.session.Gestures().Dragged(),
			subject:    m.session.Gestures().Subject(),
			ghost:      ghost,
			ghostX:     gx,
			ghostY:     gy,
			showLabels: m.showLabels,
		})
		sb.WriteString(c.String())
	}
	sb.WriteString("\n")

	switch {
	case m.adding:
		sb.WriteString(m.input.View())
	case m.err != nil && m.status == "":
		sb.WriteString(StyleError.Render(m.err.Error()))
	case m.err != nil:
		sb.WriteString(StyleError.Render(m.status))
	case m.status != "":
		sb.WriteString(StyleSuccess.Render(m.status))
	default:
		sb.WriteString(m.selectedLine())
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(sb.String())
}

func (m BoardModel) counts() [3]int {
	var c [3]int
	for _, t := range m.session.View() {
		c[0]++
		if t.EffectiveStatus() == task.StatusComplete {
			c[1]++
		}
		if t.IsBlocked {
			c[2]++
		}
	}
	return c
}

func (m BoardModel) selectedLine() string {
	id := m.session.Selected()
	if id == "" {
		return StyleSubtle.Render("drag a task up to complete it, down to add a blocker")
	}
	t, err := m.session.Task(id)
	if err != nil {
		return ""
	}
	line := fmt.Sprintf("%s  %s", StyleTitle.Render(t.Title), StatusStyle(t.IsComplete(), t.IsBlocked).Render(string(t.EffectiveStatus())))
	if len(t.DependsOn) > 0 {
		line += StyleSubtle.Render("  after " + strings.Join(t.DependsOn, ", "))
	}
	return line
}
