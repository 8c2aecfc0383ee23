package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/models"
)

const (
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
)

// FileSnapshotStore keeps the task graph in a single JSON, YAML or TOML file
// with a SHA256 checksum sidecar. Writes go to a temp file that is renamed
// into place, and an OS file lock serializes processes sharing the file.
type FileSnapshotStore struct {
	fs       afero.Fs
	filePath string
	format   string
	flk      *flock.Flock // nil on non-OS filesystems
}

// FileOption configures a FileSnapshotStore.
type FileOption func(*FileSnapshotStore)

// WithFs swaps the filesystem, e.g. afero.NewMemMapFs() in tests.
func WithFs(fsys afero.Fs) FileOption {
	return func(s *FileSnapshotStore) { s.fs = fsys }
}

// NewFileSnapshotStore prepares a store for path. format may be empty to
// infer it from the extension.
func NewFileSnapshotStore(path, format string, opts ...FileOption) (*FileSnapshotStore, error) {
	f, err := ParseFormat(format, path)
	if err != nil {
		return nil, err
	}
	s := &FileSnapshotStore{fs: afero.NewOsFs(), filePath: path, format: f}
	for _, opt := range opts {
		opt(s)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(path + lockSuffix)
	}
	return s, nil
}

// Path returns the data file location.
func (s *FileSnapshotStore) Path() string { return s.filePath }

// Format returns the data file format.
func (s *FileSnapshotStore) Format() string { return s.format }

func (s *FileSnapshotStore) lock(ctx context.Context) (func(), error) {
	if s.flk == nil {
		return func() {}, nil
	}
	locked, err := s.flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.flk.Lock(); err != nil {
			return nil, fmt.Errorf("failed to acquire blocking lock for %s: %w", s.filePath, err)
		}
	}
	return func() { _ = s.flk.Unlock() }, nil
}

// Load reads the snapshot and verifies its checksum.
func (s *FileSnapshotStore) Load(ctx context.Context) (task.Graph, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return task.Graph{}, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}
	if len(data) == 0 {
		return task.Graph{}, ErrNoSnapshot
	}

	if err := s.verifyChecksum(data); err != nil {
		return nil, err
	}

	snap, err := decodeSnapshot(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.filePath, err)
	}
	slog.Debug("snapshot loaded", "path", s.filePath, "tasks", len(snap.Tasks))
	return snap.Tasks, nil
}

// verifyChecksum compares data against the sidecar. A missing sidecar is
// accepted; the next save writes one.
func (s *FileSnapshotStore) verifyChecksum(data []byte) error {
	checksumFilePath := s.filePath + checksumSuffix
	expected, err := afero.ReadFile(s.fs, checksumFilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, err)
	}
	actual := calculateChecksum(data)
	if want := strings.TrimSpace(string(expected)); actual != want {
		return fmt.Errorf("%w for %s - expected %s, got %s - file is corrupt or tampered", ErrChecksumMismatch, s.filePath, want, actual)
	}
	return nil
}

// Save writes g atomically and then its checksum.
func (s *FileSnapshotStore) Save(ctx context.Context, g task.Graph) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := encodeSnapshot(s.format, models.NewSnapshot(g))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = s.fs.Remove(tempFilePath) }()
	defer func() { _ = s.fs.Remove(tempChecksumFilePath) }()

	if err := afero.WriteFile(s.fs, tempFilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if err := afero.WriteFile(s.fs, tempChecksumFilePath, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := s.fs.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := s.fs.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}
	slog.Debug("snapshot saved", "path", s.filePath, "tasks", len(g))
	return nil
}

// Close releases the file lock.
func (s *FileSnapshotStore) Close() error {
	if s.flk == nil {
		return nil
	}
	return s.flk.Close()
}
