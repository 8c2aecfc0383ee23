package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent_WireFormat(t *testing.T) {
	b, err := json.Marshal(SetPriority("a", 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","type":"setPriority","value":2}`, string(b))

	b, err = json.Marshal(Block("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","type":"block","blockerId":"b"}`, string(b))
}

func TestIntent_Decode(t *testing.T) {
	raw := `[
		{"id":"a","type":"setTitle","value":"hello"},
		{"id":"a","type":"setIsExternal","value":true},
		{"type":"add","task":{"id":"n","title":"New","priority":2}},
		{"id":"a","type":"teleport"}
	]`

	var intents []Intent
	require.NoError(t, json.Unmarshal([]byte(raw), &intents))
	require.Len(t, intents, 4)

	assert.Equal(t, SetTitle("a", "hello"), intents[0])
	assert.Equal(t, SetIsExternal("a", true), intents[1])
	assert.Equal(t, IntentAdd, intents[2].Kind)
	require.NotNil(t, intents[2].Task)
	assert.Equal(t, "n", intents[2].Task.ID)
	assert.Equal(t, 2, *intents[2].Task.Priority)
	assert.False(t, intents[3].Kind.Known())
}

func TestIntent_DecodeBadValue(t *testing.T) {
	var in Intent
	err := json.Unmarshal([]byte(`{"id":"a","type":"setPriority","value":"high"}`), &in)
	assert.Error(t, err)
}
