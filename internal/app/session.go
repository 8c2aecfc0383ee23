// Package app provides the application layer that ties the task graph, the
// layout simulation and the gesture controller together. The CLI, the
// terminal board and the HTTP server are thin adapters over Session.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/internal/telemetry"
	"github.com/josephgoksu/TaskTree/internal/util"
	"github.com/josephgoksu/TaskTree/store"
)

// ErrNoSnapshotStore is returned by Save and Load on a session without persistence.
var ErrNoSnapshotStore = errors.New("session has no snapshot store")

// ErrUnsavedChanges is returned by Reload while applied intents are unsaved.
var ErrUnsavedChanges = errors.New("unsaved changes")

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Layout sim.Layout
	Params sim.Params
	Seed   int64

	Snapshots store.SnapshotStore
	EventLog  store.EventLog
	Telemetry telemetry.Client

	// NewID supplies ids for tasks spawned by gestures.
	NewID func() string
}

// Session owns one task graph and its on-screen simulation.
//
// A Session is not safe for concurrent use. Gesture batches are applied
// synchronously inside Dispatch, so they always land before the next Tick.
type Session struct {
	tasks    *task.Store
	sim      *sim.Simulation
	gestures *gesture.Controller
	queue    *events.Queue

	snapshots store.SnapshotStore
	eventLog  store.EventLog
	telemetry telemetry.Client

	selected  string
	hovered   string
	highlight gesture.Highlight
	lastErr   error
	dirty     bool
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	layout := opts.Layout
	if layout == (sim.Layout{}) {
		layout = sim.DefaultLayout()
	}
	params := opts.Params
	if params == (sim.Params{}) {
		params = sim.DefaultParams()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	newID := opts.NewID
	if newID == nil {
		newID = util.NewID
	}
	tc := opts.Telemetry
	if tc == nil {
		tc = telemetry.NewNoopClient()
	}

	tasks, _ := task.NewStore(nil)
	s := &Session{
		tasks:     tasks,
		sim:       sim.New(layout, params, rand.New(rand.NewSource(seed))),
		queue:     events.NewQueue(),
		snapshots: opts.Snapshots,
		eventLog:  opts.EventLog,
		telemetry: tc,
	}
	s.gestures = gesture.NewController(s.sim, s.listener(), newID)
	return s
}

// Load replaces the graph with the stored snapshot. An empty store yields an
// empty graph.
func (s *Session) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return ErrNoSnapshotStore
	}
	g, err := s.snapshots.Load(ctx)
	if err != nil && !errors.Is(err, store.ErrNoSnapshot) {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.Replace(g); err != nil {
		return err
	}
	s.dirty = false
	slog.Info("snapshot loaded", "tasks", s.tasks.Len())
	return nil
}

// Reload is Load guarded against discarding intents applied since the last
// Save or Load.
func (s *Session) Reload(ctx context.Context) error {
	if s.dirty {
		return ErrUnsavedChanges
	}
	return s.Load(ctx)
}

// Unsaved reports whether intents have changed the graph since the last
// Save or Load.
func (s *Session) Unsaved() bool { return s.dirty }

// Save persists the authored graph.
func (s *Session) Save(ctx context.Context) error {
	if s.snapshots == nil {
		return ErrNoSnapshotStore
	}
	if err := s.snapshots.Save(ctx, s.tasks.Graph()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.dirty = false
	slog.Debug("snapshot saved", "tasks", s.tasks.Len())
	return nil
}

// Replace swaps in a whole graph and rebuilds the simulation around it.
func (s *Session) Replace(g task.Graph) error {
	if err := s.tasks.Replace(g); err != nil {
		return err
	}
	s.sim.Update(s.tasks.View())
	return nil
}

// Apply reduces intents against the graph, queues their domain events and
// updates the simulation. It returns the intents that took effect.
func (s *Session) Apply(ctx context.Context, intents ...task.Intent) ([]task.Intent, error) {
	if len(intents) == 0 {
		return nil, nil
	}
	applied, applyErr := s.tasks.Apply(intents...)
	if len(applied) == 0 {
		return nil, applyErr
	}
	s.dirty = true

	if err := s.queue.Notify(applied); err != nil {
		slog.Error("translate intents", "error", err)
	}
	s.sim.Update(s.tasks.View())

	kinds := make([]string, len(applied))
	for i, in := range applied {
		kinds[i] = string(in.Kind)
	}
	s.telemetry.Track(telemetry.EventIntentsApplied, telemetry.Properties{
		"count": len(applied),
		"kinds": strings.Join(kinds, ","),
	})
	return applied, applyErr
}

// Dispatch feeds a pointer event to the gesture controller.
func (s *Session) Dispatch(ev gesture.Event) bool {
	return s.gestures.Dispatch(ev)
}

// Tick advances the simulation by one step.
func (s *Session) Tick() {
	s.sim.Tick()
}

// Step advances the simulation by n steps.
func (s *Session) Step(n int) {
	s.sim.Step(n)
}

// Frame returns the current render snapshot of the simulation.
func (s *Session) Frame() sim.Frame {
	return s.sim.Frame()
}

// FlushEvents writes queued domain events to the event log.
func (s *Session) FlushEvents(ctx context.Context) (int, error) {
	var sink events.Sink
	if s.eventLog != nil {
		sink = s.eventLog
	}
	return s.queue.Flush(ctx, sink)
}

// PendingEvents returns the queued domain events.
func (s *Session) PendingEvents() []events.DomainEvent {
	return s.queue.Pending()
}

// Close releases the stores. The telemetry client belongs to the caller.
func (s *Session) Close() error {
	var errs []error
	if s.snapshots != nil {
		errs = append(errs, s.snapshots.Close())
	}
	if s.eventLog != nil && any(s.eventLog) != any(s.snapshots) {
		errs = append(errs, s.eventLog.Close())
	}
	return errors.Join(errs...)
}

// Graph returns the authored graph.
func (s *Session) Graph() task.Graph { return s.tasks.Graph() }

// View returns the resolved graph.
func (s *Session) View() task.Graph { return s.tasks.View() }

// Task returns one resolved task.
func (s *Session) Task(id string) (task.Task, error) { return s.tasks.Task(id) }

// Simulation exposes the layout engine for read access by renderers.
func (s *Session) Simulation() *sim.Simulation { return s.sim }

// Gestures exposes the gesture controller for read access by renderers.
func (s *Session) Gestures() *gesture.Controller { return s.gestures }

// Selected returns the id of the selected task, if any.
func (s *Session) Selected() string { return s.selected }

// Hovered returns the id of the task under the pointer, if any.
func (s *Session) Hovered() string { return s.hovered }

// Mode returns the gesture controller's state.
func (s *Session) Mode() gesture.State { return s.gestures.State() }

// Highlight returns the zone feedback for the current drag.
func (s *Session) Highlight() gesture.Highlight { return s.highlight }

// LastError returns the error from the most recent gesture batch.
func (s *Session) LastError() error { return s.lastErr }

// listener routes gesture controller output back into the session.
func (s *Session) listener() gesture.Listener {
	return gesture.Funcs{
		OnIntents: func(batch []task.Intent) {
			_, err := s.Apply(context.Background(), batch...)
			s.lastErr = err
			if err != nil {
				slog.Warn("gesture batch failed", "batch", len(batch), "error", err)
			}
		},
		OnHighlight: func(h gesture.Highlight) { s.highlight = h },
		OnModeChanged: func(st gesture.State) {
			slog.Debug("gesture mode", "state", st)
			s.telemetry.Track(telemetry.EventGesture, telemetry.Properties{"state": st.String()})
		},
		OnSelected: func(id string) { s.selected = id },
		OnHovered:  func(id string) { s.hovered = id },
	}
}
