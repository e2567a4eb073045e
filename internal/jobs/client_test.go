package jobs_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/jobs"
)

func TestClient_EnqueuesOnProjectionQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := jobs.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rebuildID, err := client.EnqueueRebuild(context.Background(), "wp-1", "p-1", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, rebuildID)

	verifyID, err := client.EnqueueVerify(context.Background(), "wp-1", "p-1")
	require.NoError(t, err)
	assert.NotEqual(t, rebuildID, verifyID)

	pending, err := mr.List("asynq:{" + jobs.QueueProjection + "}:pending")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{rebuildID, verifyID}, pending)
}

func TestNewProjectionRebuildTask_Options(t *testing.T) {
	task, err := jobs.NewProjectionRebuildTask(jobs.ProjectionRebuildPayload{WorkplaceID: "wp-1", PeriodID: "p-1"})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskProjectionRebuild, task.Type())
	assert.JSONEq(t, `{"workplaceID":"wp-1","periodID":"p-1","actorID":""}`, string(task.Payload()))
}
