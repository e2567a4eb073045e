package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out to external subscribers with PUBLISH on one channel.
// Each message is the JSON encoding of a domain.Event.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher creates a publisher writing to channel.
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends every event and reports all failures joined.
func (p *RedisPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, event := range events {
		body, err := json.Marshal(event)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode event %s: %w", event.EventID, err))
			continue
		}
		if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
			errs = append(errs, fmt.Errorf("publish event %s: %w", event.EventID, err))
		}
	}
	return errors.Join(errs...)
}

// Fanout hands events to several publishers, attempting all of them.
type Fanout []portssvc.EventPublisher

// Publish delivers to each publisher and joins the failures.
func (f Fanout) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ portssvc.EventPublisher = (*RedisPublisher)(nil)
	_ portssvc.EventPublisher = Fanout(nil)
)
