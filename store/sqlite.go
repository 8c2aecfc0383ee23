package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/models"
)

// DefaultDBName is the database file created inside the data directory.
const DefaultDBName = "tasktree.db"

// SQLiteStore keeps snapshot history and the event log in one SQLite
// database. The newest snapshot row is the current graph.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	owner  string
}

// SnapshotInfo describes one saved snapshot row.
type SnapshotInfo struct {
	ID            int64     `json:"id"`
	Owner         string    `json:"owner"`
	SchemaVersion int       `json:"schemaVersion"`
	Tasks         int       `json:"tasks"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewSQLiteStore opens (or creates) the database at dbPath. Pass ":memory:"
// for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath, owner: "local"}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithOwner tags saved snapshots with owner.
func (s *SQLiteStore) WithOwner(owner string) *SQLiteStore {
	if owner != "" {
		s.owner = owner
	}
	return s
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL DEFAULT 'local',
		schema_version INTEGER NOT NULL,
		snapshot TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL,
		type TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_task_events_task ON task_events(task_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the graph from the newest snapshot row.
func (s *SQLiteStore) Load(ctx context.Context) (task.Graph, error) {
	var version int
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT schema_version, snapshot FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Graph{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	snap := models.Snapshot{SchemaVersion: version}
	if err := json.Unmarshal([]byte(payload), &snap.Tasks); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return snap.Tasks, nil
}

// Save appends a new snapshot row. Older rows are kept as history.
func (s *SQLiteStore) Save(ctx context.Context, g task.Graph) error {
	snap := models.NewSnapshot(g)
	payload, err := json.Marshal(snap.Tasks)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (user_id, schema_version, snapshot, created_at) VALUES (?, ?, ?, ?)`,
		s.owner, snap.SchemaVersion, string(payload), snap.SavedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	slog.Debug("snapshot inserted", "tasks", len(g))
	return nil
}

// History lists up to limit snapshot rows, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, schema_version, snapshot, created_at FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var payload, created string
		if err := rows.Scan(&info.ID, &info.Owner, &info.SchemaVersion, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var g map[string]json.RawMessage
		if err := json.Unmarshal([]byte(payload), &g); err == nil {
			info.Tasks = len(g)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return out, nil
}

// Append writes events in a single transaction.
func (s *SQLiteStore) Append(ctx context.Context, evs []events.DomainEvent) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO task_events (task_id, type, payload, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		at := ev.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, ev.ID, string(ev.Type), string(payload), at.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events: %w", err)
	}
	return nil
}

// Events returns the newest limit events in insertion order.
func (s *SQLiteStore) Events(ctx context.Context, limit int) ([]events.DomainEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM (SELECT id, payload FROM task_events ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []events.DomainEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev events.DomainEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, ev)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// checkRowsErr checks for errors that may have occurred during row iteration.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}
