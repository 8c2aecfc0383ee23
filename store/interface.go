package store

import (
	"context"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// SnapshotStore persists whole task graphs.
// Implementations read and replace the graph wholesale; they never merge.
type SnapshotStore interface {
	// Load returns the most recently saved graph.
	// It returns ErrNoSnapshot (with an empty graph) when nothing has been
	// saved yet, so callers can start from scratch.
	Load(ctx context.Context) (task.Graph, error)

	// Save persists the authored graph. Derived fields are not written.
	Save(ctx context.Context, g task.Graph) error

	// Close releases any resources held by the store, such as file locks or
	// database connections. It should be called when the store is no longer needed.
	Close() error
}

// EventLog is an append-only sink for domain events.
type EventLog interface {
	// Append writes a batch of events. The batch is written entirely or not
	// at all where the backend supports it.
	Append(ctx context.Context, evs []events.DomainEvent) error

	// Events returns up to limit of the most recent events, oldest first.
	// A limit of 0 or less returns every event.
	Events(ctx context.Context, limit int) ([]events.DomainEvent, error)

	Close() error
}

var (
	_ events.Sink   = (EventLog)(nil)
	_ SnapshotStore = (*FileSnapshotStore)(nil)
	_ SnapshotStore = (*SQLiteStore)(nil)
	_ EventLog      = (*SQLiteStore)(nil)
	_ EventLog      = (*JSONLEventLog)(nil)
)
