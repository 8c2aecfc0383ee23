package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and configures the persistence backends.
type Options struct {
	Backend  string // file or sqlite
	DataFile string // snapshot file, or database file for sqlite
	Format   string // json, yaml or toml (file backend)
	EventLog string // JSONL event log path (file backend)
	Fs       afero.Fs
}

// Open builds the snapshot store and event log for opts. With the sqlite
// backend a single database serves as both.
func Open(opts Options) (SnapshotStore, EventLog, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendSQLite:
		path := opts.DataFile
		if path == "" {
			path = DefaultDBName
		} else if ext := filepath.Ext(path); ext != ".db" && ext != ".sqlite" && path != ":memory:" {
			path = filepath.Join(filepath.Dir(path), DefaultDBName)
		}
		db, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil

	case BackendFile, "":
		fsys := opts.Fs
		if fsys == nil {
			fsys = afero.NewOsFs()
		}
		snaps, err := NewFileSnapshotStore(opts.DataFile, opts.Format, WithFs(fsys))
		if err != nil {
			return nil, nil, err
		}
		logPath := opts.EventLog
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(opts.DataFile), "events.jsonl")
		}
		evlog, err := NewJSONLEventLog(fsys, logPath)
		if err != nil {
			_ = snaps.Close()
			return nil, nil, err
		}
		return snaps, evlog, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q (want file or sqlite)", opts.Backend)
}
