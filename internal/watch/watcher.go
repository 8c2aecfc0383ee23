// Package watch reloads the snapshot file when another process rewrites it.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long changes settle before the reload fires.
const DefaultDelay = 250 * time.Millisecond

// ReloadFunc is called once per settled burst of changes to the file.
type ReloadFunc func(ctx context.Context) error

// FileWatcher watches one file. Writers that replace the file by rename
// are handled by watching its directory.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *debouncer
	hashes   *contentHashTracker
	onReload ReloadFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for path. delay <= 0 selects DefaultDelay.
func New(path string, delay time.Duration, onReload ReloadFunc) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWatcher{
		path:     abs,
		watcher:  watcher,
		hashes:   newContentHashTracker(),
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}
	w.debounce = newDebouncer(delay, w.reload)
	w.hashes.HasChanged(abs)
	return w, nil
}

// Path returns the watched file.
func (w *FileWatcher) Path() string { return w.path }

// Start begins watching.
func (w *FileWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Debug("watching snapshot", "path", w.path)

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *FileWatcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.debounce.Stop()
	w.wg.Wait()
}

// MarkWritten records the file's current content as our own, so the write
// we just made does not trigger a reload.
func (w *FileWatcher) MarkWritten() {
	w.hashes.HasChanged(w.path)
}

func (w *FileWatcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.debounce.Trigger()
}

func (w *FileWatcher) reload() {
	if !w.hashes.HasChanged(w.path) {
		slog.Debug("snapshot unchanged, skipping reload", "path", w.path)
		return
	}
	if w.onReload == nil {
		return
	}
	if err := w.onReload(w.ctx); err != nil {
		slog.Error("snapshot reload failed", "path", w.path, "error", err)
		return
	}
	slog.Info("snapshot reloaded", "path", w.path)
}

// debouncer collapses bursts of triggers into one call.
type debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	onFlush func()
	stopped bool
}

func newDebouncer(delay time.Duration, onFlush func()) *debouncer {
	return &debouncer{delay: delay, onFlush: onFlush}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.onFlush)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// contentHashTracker remembers the last seen content hash per path.
type contentHashTracker struct {
	mu     sync.Mutex
	hashes map[string]string
}

func newContentHashTracker() *contentHashTracker {
	return &contentHashTracker{hashes: make(map[string]string)}
}

// HasChanged reports whether path differs from the last call. Unreadable
// files count as changed.
func (t *contentHashTracker) HasChanged(path string) bool {
	hash, err := fileHash(path)
	if err != nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	old, exists := t.hashes[path]
	t.hashes[path] = hash
	return !exists || hash != old
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
