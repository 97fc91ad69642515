package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var todos []Todo
	raw := `[{"id":5,"userId":1,"title":"a","completed":false},
	         {"id":"custom_abc","userId":1,"title":"b","completed":true,"isCustom":true,"originalId":5}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &todos))
	require.Len(t, todos, 2)

	assert.Equal(t, ID("5"), todos[0].ID)
	assert.False(t, todos[0].IsShadow())
	assert.Equal(t, ID("custom_abc"), todos[1].ID)
	assert.Equal(t, ID("5"), todos[1].OriginalID)
	assert.True(t, todos[1].IsShadow())
}

func TestID_MarshalKeepsNumericIDsNumeric(t *testing.T) {
	b, err := json.Marshal(Todo{ID: "custom_x", UserID: NumID(7), Title: "t", OriginalID: "3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"custom_x","userId":7,"title":"t","completed":false,"originalId":3}`, string(b))
}

func TestID_Uint(t *testing.T) {
	n, ok := ID("42").Uint()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), n)

	_, ok = ID("custom_1").Uint()
	assert.False(t, ok)
}

func TestCountTodos(t *testing.T) {
	s := CountTodos([]Todo{{Completed: true}, {}, {}})
	assert.Equal(t, TodoStats{Total: 3, Completed: 1, Pending: 2}, s)
}
