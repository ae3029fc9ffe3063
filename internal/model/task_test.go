package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLaneFallsBackToDone(t *testing.T) {
	assert.Equal(t, StatusToDo, StatusToDo.Lane())
	assert.Equal(t, StatusInProgress, StatusInProgress.Lane())
	assert.Equal(t, StatusDone, StatusDone.Lane())
	assert.Equal(t, StatusDone, Status("archived").Lane())
	assert.Equal(t, StatusDone, Status("").Lane())
	assert.False(t, Status("archived").Known())
}

func TestStatusNext(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusToDo.Next())
	assert.Equal(t, StatusDone, StatusInProgress.Next())
	assert.Equal(t, StatusDone, StatusDone.Next())
}

func TestParseDueDate(t *testing.T) {
	d := ParseDueDate("01/02/2030")
	require.True(t, d.Valid())
	got, ok := d.In(time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2030, time.February, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "01/02/2030", d.String())

	empty := ParseDueDate("")
	assert.True(t, empty.IsZero())
	assert.False(t, empty.Valid())

	bad := ParseDueDate("2030-02-01")
	assert.False(t, bad.IsZero())
	assert.False(t, bad.Valid())
	assert.Equal(t, "2030-02-01", bad.String())
	_, ok = bad.In(time.UTC)
	assert.False(t, ok)
}

func TestTaskJSONLayout(t *testing.T) {
	task := Task{ID: "t1", Name: "Write report", Type: "Writing", DueDate: ParseDueDate("01/01/2030"), Status: StatusToDo}

	payload, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","name":"Write report","type":"Writing","dueDate":"01/01/2030","status":"to-do"}`, string(payload))

	var back Task
	require.NoError(t, json.Unmarshal(payload, &back))
	assert.Equal(t, task, back)
}

func TestTaskJSONKeepsUnparsableDueDate(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","dueDate":"next week","status":"blocked"}`), &task))
	assert.Equal(t, "next week", task.DueDate.String())
	assert.Equal(t, Status("blocked"), task.Status)

	payload, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"dueDate":"next week"`)
	assert.Contains(t, string(payload), `"status":"blocked"`)
}

func TestDueDateJSONEscapes(t *testing.T) {
	var d DueDate
	require.NoError(t, json.Unmarshal([]byte(`"01\/01\/2030"`), &d))
	assert.Equal(t, NewDueDate(2030, time.January, 1), d)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	for _, raw := range []string{"01/01/2030\x7f", "tab\there", "bell\x07"} {
		payload, err := json.Marshal(Task{ID: "x", DueDate: ParseDueDate(raw)})
		require.NoError(t, err, "due date %q", raw)
		assert.True(t, json.Valid(payload), string(payload))

		var back Task
		require.NoError(t, json.Unmarshal(payload, &back))
		assert.Equal(t, ParseDueDate(raw), back.DueDate)
	}
}
