package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/TaskTree/internal/task"
)

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr bool
	}{
		{
			name:    "valid snapshot",
			snap:    NewSnapshot(task.Graph{"a": task.NewTask("a")}),
			wantErr: false,
		},
		{
			name:    "empty graph",
			snap:    NewSnapshot(nil),
			wantErr: false,
		},
		{
			name:    "missing schema version",
			snap:    Snapshot{Tasks: task.Graph{}},
			wantErr: true,
		},
		{
			name:    "future schema version",
			snap:    Snapshot{SchemaVersion: 99, Tasks: task.Graph{}},
			wantErr: true,
		},
		{
			name:    "key mismatch",
			snap:    Snapshot{SchemaVersion: 1, Tasks: task.Graph{"a": task.NewTask("b")}},
			wantErr: true,
		},
		{
			name:    "title too long",
			snap:    Snapshot{SchemaVersion: 1, Tasks: task.Graph{"a": {ID: "a", Title: strings.Repeat("x", 201)}}},
			wantErr: true,
		},
		{
			name:    "invalid status",
			snap:    Snapshot{SchemaVersion: 1, Tasks: task.Graph{"a": {ID: "a", Status: "paused"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Snapshot.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	g := task.Graph{
		"a": task.NewTask("a"),
		"b": {ID: "b", Title: "B", Priority: 1, Status: task.StatusComplete, DependsOn: []string{"a"}},
	}
	snap := NewSnapshot(g)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())

	assert.Equal(t, CurrentSchemaVersion, decoded.SchemaVersion)
	assert.Equal(t, []string{"a"}, decoded.Tasks["b"].DependsOn)
	assert.Equal(t, task.StatusComplete, decoded.Tasks["b"].Status)
}

func TestSnapshot_Normalize(t *testing.T) {
	snap := Snapshot{Tasks: task.Graph{"a": {Title: "A", Status: "not started"}}}
	snap.Normalize()

	assert.Equal(t, CurrentSchemaVersion, snap.SchemaVersion)
	assert.Equal(t, "a", snap.Tasks["a"].ID)
	assert.Equal(t, task.StatusNotStarted, snap.Tasks["a"].Status)
	assert.NoError(t, snap.Validate())
}
