package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueProjection carries projection maintenance work.
	QueueProjection = "projection"

	// TaskProjectionRebuild recomputes one period's projection from posted lines.
	TaskProjectionRebuild = "ledger:projection:rebuild"
	// TaskProjectionVerify diffs one period's projection against posted lines.
	TaskProjectionVerify = "ledger:projection:verify"
	// TaskProjectionVerifyOpen verifies every open period of every workplace.
	TaskProjectionVerifyOpen = "ledger:projection:verify_open"
)

// ProjectionRebuildPayload identifies the period to rebuild.
type ProjectionRebuildPayload struct {
	WorkplaceID string `json:"workplaceID"`
	PeriodID    string `json:"periodID"`
	ActorID     string `json:"actorID"`
}

// ProjectionVerifyPayload identifies the period to verify.
type ProjectionVerifyPayload struct {
	WorkplaceID string `json:"workplaceID"`
	PeriodID    string `json:"periodID"`
}

// NewProjectionRebuildTask builds a rebuild task.
func NewProjectionRebuildTask(payload ProjectionRebuildPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProjectionRebuild, body,
		asynq.Queue(QueueProjection),
		asynq.MaxRetry(5),
		asynq.Timeout(10*time.Minute),
	), nil
}

// NewProjectionVerifyTask builds a verification task.
func NewProjectionVerifyTask(payload ProjectionVerifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProjectionVerify, body,
		asynq.Queue(QueueProjection),
		asynq.MaxRetry(3),
	), nil
}

// NewProjectionVerifyOpenTask builds the nightly sweep task.
func NewProjectionVerifyOpenTask() *asynq.Task {
	return asynq.NewTask(TaskProjectionVerifyOpen, nil, asynq.Queue(QueueProjection), asynq.MaxRetry(1))
}
