package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTaskPayload(t *testing.T) {
	task, err := NewRunTask(RunPayload{JobID: "j1", Stage: "all"})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRun, task.Type())

	p, err := ParseRunPayload(task)
	require.NoError(t, err)
	assert.Equal(t, RunPayload{JobID: "j1", Stage: "all"}, p)
}

func TestParseRunPayload_Invalid(t *testing.T) {
	_, err := ParseRunPayload(asynq.NewTask(TaskTypeRun, []byte("not json")))
	assert.Error(t, err)
}
