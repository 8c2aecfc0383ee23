package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/events"
	"github.com/josephgoksu/TaskTree/internal/server"
	"github.com/josephgoksu/TaskTree/internal/sim"
	"github.com/josephgoksu/TaskTree/internal/task"
)

// listJSON returns the resolved tasks keyed by id.
func listJSON(t *testing.T) map[string]server.TaskView {
	t.Helper()
	var views []server.TaskView
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "list", "--json")), &views))
	out := make(map[string]server.TaskView, len(views))
	for _, v := range views {
		out[v.ID] = v
	}
	return out
}

// seedChain creates A <- B <- C (C depends on B, B on A).
func seedChain(t *testing.T) {
	t.Helper()
	mustRun(t, "add", "Design", "--id", "A", "--priority", "1")
	mustRun(t, "add", "Build", "--id", "B", "--depends-on", "A")
	mustRun(t, "add", "Ship", "--id", "C", "--depends-on", "B")
}

func TestInit_CreatesProject(t *testing.T) {
	setupProject(t)
	out := mustRun(t, "init")
	assert.Contains(t, out, "Wrote config")
	assert.Contains(t, out, "Created empty snapshot")

	_, err := os.Stat(filepath.Join(".tasktree", ".tasktree.yaml"))
	require.NoError(t, err)

	out = mustRun(t, "init")
	assert.Contains(t, out, "Keeping existing config")
	assert.Contains(t, out, "Keeping existing snapshot")
}

func TestInit_YAMLFormat(t *testing.T) {
	setupProject(t)
	mustRun(t, "init", "--format", "yaml")
	mustRun(t, "add", "In YAML")

	data, err := os.ReadFile(filepath.Join(".tasktree", "tasks.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "In YAML")
}

func TestList_Empty(t *testing.T) {
	setupProject(t)
	out := mustRun(t, "list")
	assert.Contains(t, out, "No tasks yet")
}

func TestAdd_AndList(t *testing.T) {
	setupProject(t)
	seedChain(t)

	tasks := listJSON(t)
	require.Len(t, tasks, 3)
	assert.Equal(t, 1, tasks["A"].Priority)
	assert.Equal(t, task.DefaultPriority, tasks["B"].Priority)
	assert.False(t, tasks["A"].IsBlocked)
	assert.True(t, tasks["B"].IsBlocked)
	assert.True(t, tasks["C"].IsBlocked)

	out := mustRun(t, "list")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Not Started")
	assert.Contains(t, out, "Blocked")
	assert.Contains(t, out, "3 tasks")

	out = mustRun(t, "list", "--status", "available")
	assert.Contains(t, out, "Design")
	assert.NotContains(t, out, "Ship")
}

func TestAdd_UnknownDependency(t *testing.T) {
	setupProject(t)
	_, err := run(t, "add", "Orphan", "--depends-on", "nope")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestAdd_GeneratedID(t *testing.T) {
	setupProject(t)
	out := mustRun(t, "add", "No", "id", "given")
	assert.Contains(t, out, "No id given")

	tasks := listJSON(t)
	require.Len(t, tasks, 1)
	for id := range tasks {
		assert.Len(t, id, 8)
	}
}

func TestComplete_ChainUnblocks(t *testing.T) {
	setupProject(t)
	seedChain(t)

	out := mustRun(t, "complete", "B")
	assert.Contains(t, out, "blocked")
	assert.False(t, listJSON(t)["B"].EffectiveStatus == task.StatusComplete)

	out = mustRun(t, "complete", "A")
	assert.Contains(t, out, "unblocked B")

	mustRun(t, "complete", "B")
	tasks := listJSON(t)
	assert.False(t, tasks["C"].IsBlocked)

	mustRun(t, "uncomplete", "A")
	tasks = listJSON(t)
	assert.True(t, tasks["B"].IsBlocked)
	assert.True(t, tasks["C"].IsBlocked)
	// the authored status survives while blocked
	assert.Equal(t, task.StatusComplete, tasks["B"].Status)
	assert.Equal(t, task.StatusNotStarted, tasks["B"].EffectiveStatus)
}

func TestComplete_NeedsIDWhenNotInteractive(t *testing.T) {
	setupProject(t)
	seedChain(t)
	_, err := run(t, "complete")
	assert.ErrorIs(t, err, errNotInteractive)
}

func TestBlock_RejectsCycle(t *testing.T) {
	setupProject(t)
	seedChain(t)

	_, err := run(t, "block", "A", "C")
	require.ErrorIs(t, err, task.ErrCycle)
	assert.Contains(t, userMessage(err), "cycle")
	assert.Empty(t, listJSON(t)["A"].DependsOn)

	_, err = run(t, "block", "A", "A")
	assert.Error(t, err)
}

func TestBlockUnblock(t *testing.T) {
	setupProject(t)
	mustRun(t, "add", "One", "--id", "one")
	mustRun(t, "add", "Two", "--id", "two")

	out := mustRun(t, "block", "two", "one")
	assert.Contains(t, out, "two now depends on one")
	assert.True(t, listJSON(t)["two"].IsBlocked)

	out = mustRun(t, "unblock", "two", "one")
	assert.Contains(t, out, "no longer depends")
	assert.False(t, listJSON(t)["two"].IsBlocked)

	out = mustRun(t, "unblock", "two", "one")
	assert.Contains(t, out, "does not depend")
}

func TestSet(t *testing.T) {
	setupProject(t)
	mustRun(t, "add", "Draft", "--id", "x")

	mustRun(t, "set", "x", "--title", "Final", "--priority", "2", "--external")
	tk := listJSON(t)["x"]
	assert.Equal(t, "Final", tk.Title)
	assert.Equal(t, 2, tk.Priority)
	assert.True(t, tk.IsExternal)

	_, err := run(t, "set", "x")
	assert.Error(t, err)
	_, err = run(t, "set", "missing", "--title", "y")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
	_, err = run(t, "set", "x", "--title", strings.Repeat("t", 201))
	assert.ErrorIs(t, err, task.ErrInvalidTask)

	out := mustRun(t, "set", "x", "--title", "Final")
	assert.Contains(t, out, "(0 change(s))")
}

func TestDelete_UnlinksDependents(t *testing.T) {
	setupProject(t)
	seedChain(t)

	_, err := run(t, "delete", "B")
	assert.ErrorIs(t, err, errNotInteractive)

	out := mustRun(t, "delete", "B", "--yes")
	assert.Contains(t, out, "unlinked from C")

	tasks := listJSON(t)
	require.Len(t, tasks, 2)
	assert.Empty(t, tasks["C"].DependsOn)
	assert.False(t, tasks["C"].IsBlocked)
}

func TestShow(t *testing.T) {
	setupProject(t)
	seedChain(t)

	out := mustRun(t, "show", "B")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Ship")

	var v server.TaskView
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "show", "B", "--json")), &v))
	assert.Equal(t, []string{"A"}, v.DependsOn)
	assert.True(t, v.IsBlocked)
}

func TestResolve(t *testing.T) {
	setupProject(t)
	seedChain(t)

	out := mustRun(t, "resolve")
	assert.Contains(t, out, "No cycles. 3 tasks, 0 complete, 2 blocked.")
	assert.Less(t, indexOf(out, "Design"), indexOf(out, "Build"))
	assert.Less(t, indexOf(out, "Build"), indexOf(out, "Ship"))
}

func TestResolve_ReportsCycleInHandEditedSnapshot(t *testing.T) {
	setupProject(t)
	require.NoError(t, os.MkdirAll(".tasktree", 0755))
	snapshot := `{"schemaVersion":1,"tasks":{
		"a":{"id":"a","title":"a","dependsOn":["b"]},
		"b":{"id":"b","title":"b","dependsOn":["a"]}}}`
	require.NoError(t, os.WriteFile(filepath.Join(".tasktree", "tasks.json"), []byte(snapshot), 0644))

	_, err := run(t, "resolve")
	assert.ErrorIs(t, err, task.ErrCycle)
}

func TestSimulate(t *testing.T) {
	setupProject(t)
	seedChain(t)
	mustRun(t, "complete", "A")

	var frame sim.Frame
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "simulate", "--ticks", "300", "--json")), &frame))
	require.Len(t, frame.Nodes, 3)

	ys := map[string]float64{}
	for _, n := range frame.Nodes {
		ys[n.ID] = n.Y
	}
	assert.Less(t, ys["A"], ys["C"], "complete task sits above the blocked one")

	out := mustRun(t, "simulate", "-n", "10")
	assert.Contains(t, out, "10 ticks")
}

func TestEvents(t *testing.T) {
	setupProject(t)
	out := mustRun(t, "events")
	assert.Contains(t, out, "No events recorded yet")

	seedChain(t)
	mustRun(t, "complete", "A")
	mustRun(t, "delete", "C", "--yes")

	var evs []events.DomainEvent
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "events", "--json", "--limit", "0")), &evs))
	require.Len(t, evs, 5)
	assert.Equal(t, events.TypeCreate, evs[0].Type)
	assert.Equal(t, events.TypeUpdate, evs[3].Type)
	assert.Equal(t, events.TypeDelete, evs[4].Type)

	out = mustRun(t, "events", "-n", "2")
	assert.Contains(t, out, "delete")
}

func TestConfigShow(t *testing.T) {
	setupProject(t)
	out := mustRun(t, "config", "show")
	assert.Contains(t, out, "# config file: (none, using defaults)")
	assert.Contains(t, out, "backend: file")
	assert.Contains(t, out, "completeLine: 150")
}

func TestConfigTelemetry(t *testing.T) {
	setupProject(t)
	assert.Contains(t, mustRun(t, "config", "telemetry", "status"), "disabled")
	assert.Contains(t, mustRun(t, "config", "telemetry", "enable"), "enabled")
	assert.Contains(t, mustRun(t, "config", "telemetry", "status"), "Anonymous ID")
	mustRun(t, "config", "telemetry", "disable")
	assert.Contains(t, mustRun(t, "config", "telemetry", "status"), "disabled")
}

func TestBoard_RequiresTerminal(t *testing.T) {
	setupProject(t)
	_, err := run(t, "board")
	assert.ErrorIs(t, err, errNotInteractive)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
