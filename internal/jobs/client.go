package jobs

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/hibiken/asynq"
)

// Client submits projection jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueRebuild queues a projection rebuild and returns the task ID.
func (c *Client) EnqueueRebuild(ctx context.Context, workplaceID, periodID, actorID string) (string, error) {
	task, err := NewProjectionRebuildTask(ProjectionRebuildPayload{
		WorkplaceID: workplaceID,
		PeriodID:    periodID,
		ActorID:     actorID,
	})
	if err != nil {
		return "", fmt.Errorf("build rebuild task: %w", err)
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueue rebuild task: %w", err)
	}
	return info.ID, nil
}

// EnqueueVerify queues a projection verification and returns the task ID.
func (c *Client) EnqueueVerify(ctx context.Context, workplaceID, periodID string) (string, error) {
	task, err := NewProjectionVerifyTask(ProjectionVerifyPayload{WorkplaceID: workplaceID, PeriodID: periodID})
	if err != nil {
		return "", fmt.Errorf("build verify task: %w", err)
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueue verify task: %w", err)
	}
	return info.ID, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ portssvc.ProjectionJobEnqueuer = (*Client)(nil)
