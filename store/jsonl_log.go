package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/josephgoksu/TaskTree/internal/events"
)

// JSONLEventLog appends domain events to a newline-delimited JSON file.
type JSONLEventLog struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewJSONLEventLog creates a log at path on fsys (afero.NewOsFs() when nil).
func NewJSONLEventLog(fsys afero.Fs, path string) (*JSONLEventLog, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create event log directory: %w", err)
		}
	}
	return &JSONLEventLog{fs: fsys, path: path}, nil
}

// Path returns the log file location.
func (l *JSONLEventLog) Path() string { return l.path }

// Append encodes the whole batch before touching the file so a bad event
// writes nothing.
func (l *JSONLEventLog) Append(ctx context.Context, evs []events.DomainEvent) error {
	if len(evs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf []byte
	for _, ev := range evs {
		line, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write event log: %w", err)
	}
	return f.Close()
}

// Events reads the log, returning at most the newest limit events.
func (l *JSONLEventLog) Events(ctx context.Context, limit int) ([]events.DomainEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []events.DomainEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev events.DomainEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("decode event log line: %w", err)
		}
		out = append(out, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Close is a no-op; the file is opened per append.
func (l *JSONLEventLog) Close() error { return nil }
