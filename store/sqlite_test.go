package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/task"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_NewestSnapshotWins(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, task.Graph{"old": task.NewTask("old")}))
	require.NoError(t, s.Save(ctx, sampleGraph()))

	g, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleGraph(), g)

	hist, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 3, hist[0].Tasks)
	assert.Equal(t, 1, hist[1].Tasks)
	assert.Equal(t, "local", hist[0].Owner)
}

func TestSQLiteStore_EventLog(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	evs, err := events.Translate([]task.Intent{
		task.Add("n", nil),
		task.Block("x", "n"),
		task.Delete("old"),
	})
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, evs))

	got, err := s.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, events.TypeCreate, got[0].Type)
	assert.Equal(t, "n", got[0].Task.ID)
	assert.Equal(t, []string{"n"}, got[1].TaskUpdate.AddDeps)
	assert.Equal(t, events.TypeDelete, got[2].Type)

	last, err := s.Events(ctx, 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "old", last[0].ID)
}

func TestSQLiteStore_OnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", DefaultDBName)

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleGraph()))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	g, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, g, 3)
}
