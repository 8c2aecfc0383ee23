package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/josephgoksu/TaskTree/internal/task"
)

// Sink receives batches of domain events. store.EventLog implementations
// satisfy it.
type Sink interface {
	Append(ctx context.Context, events []DomainEvent) error
}

// Queue buffers domain events until they are flushed to a Sink.
type Queue struct {
	mu      sync.Mutex
	pending []DomainEvent
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Notify translates applied intents and buffers the resulting events.
func (q *Queue) Notify(intents []task.Intent) error {
	evs, err := Translate(intents)
	if err != nil {
		return err
	}
	q.Push(evs...)
	return nil
}

// Push appends events to the queue.
func (q *Queue) Push(evs ...DomainEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, evs...)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Pending returns a copy of the buffered events.
func (q *Queue) Pending() []DomainEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]DomainEvent, len(q.pending))
	copy(out, q.pending)
	return out
}

// Flush writes every pending event to sink. The queue is emptied only when
// the sink accepts the whole batch; on failure the events stay queued.
// Events pushed while the flush is in flight are kept.
func (q *Queue) Flush(ctx context.Context, sink Sink) (int, error) {
	batch := q.Pending()
	if len(batch) == 0 {
		return 0, nil
	}
	if sink == nil {
		return 0, fmt.Errorf("flush events: no event log configured")
	}

	if err := sink.Append(ctx, batch); err != nil {
		slog.Warn("event flush failed, keeping queue", "pending", len(batch), "error", err)
		return 0, fmt.Errorf("flush events: %w", err)
	}

	q.mu.Lock()
	q.pending = q.pending[len(batch):]
	q.mu.Unlock()

	slog.Debug("flushed events", "count", len(batch))
	return len(batch), nil
}
