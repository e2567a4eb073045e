package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// EventPublisher delivers committed domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// ProjectionJobEnqueuer queues background projection work.
type ProjectionJobEnqueuer interface {
	EnqueueRebuild(ctx context.Context, workplaceID, periodID, actorID string) (string, error)
	EnqueueVerify(ctx context.Context, workplaceID, periodID string) (string, error)
}
