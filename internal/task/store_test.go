package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(chain())
	require.NoError(t, err)
	return s
}

func TestStore_ViewAndGraph(t *testing.T) {
	s := setupTestStore(t)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.View()["A"].IsBlocked)
	assert.False(t, s.Graph()["A"].IsBlocked, "authored graph carries no derived state")
	assert.Equal(t, StatusComplete, s.Graph()["A"].Status)

	_, err := s.Task("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := setupTestStore(t)

	v := s.View()
	v["A"] = Task{ID: "A", Title: "hijacked"}

	a, err := s.Task("A")
	require.NoError(t, err)
	assert.NotEqual(t, "hijacked", a.Title)
}

func TestStore_ApplyReturnsApplied(t *testing.T) {
	s := setupTestStore(t)

	applied, err := s.Apply(Complete("C"), Block("C", "C"))
	require.NoError(t, err)
	assert.Equal(t, []Intent{Complete("C")}, applied)

	c, err := s.Task("C")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, c.Status)
	b, _ := s.Task("B")
	assert.False(t, b.IsBlocked)
}

func TestStore_ApplyOmitsNoops(t *testing.T) {
	s := setupTestStore(t)
	before := s.Graph()

	applied, err := s.Apply(
		Complete("B"), // blocked by C
		Block("A", "A"),
		Uncomplete("missing"),
		Block("A", "B"), // already a dependency
		SetTitle("C", s.Graph()["C"].Title),
	)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, before, s.Graph())
}

func TestStore_CycleRejectedAtomically(t *testing.T) {
	s := setupTestStore(t)
	before := s.Graph()

	applied, err := s.Apply(SetTitle("A", "renamed"), Block("C", "A"))
	assert.ErrorIs(t, err, ErrCycle)
	assert.Nil(t, applied)
	assert.Equal(t, before, s.Graph())
}

func TestStore_ReplaceRejectsCycle(t *testing.T) {
	s := setupTestStore(t)

	err := s.Replace(Graph{"x": {ID: "x", DependsOn: []string{"x"}}})
	assert.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Replace(nil))
	assert.Equal(t, 0, s.Len())
}
