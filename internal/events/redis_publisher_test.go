package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/events"
)

func TestRedisPublisher_PublishesJSONOnChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "ledger.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	occurred := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	pub := events.NewRedisPublisher(client, "ledger.events")
	err = pub.Publish(ctx, domain.Event{
		EventID:     "evt-1",
		Type:        domain.EventPeriodClosed,
		WorkplaceID: "wp-1",
		AggregateID: "period-1",
		OccurredAt:  occurred,
		Payload:     map[string]any{"closedBy": "user-1"},
	})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ledger.events", msg.Channel)

	var got domain.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, domain.EventPeriodClosed, got.Type)
	assert.Equal(t, "wp-1", got.WorkplaceID)
	assert.True(t, occurred.Equal(got.OccurredAt))
	assert.Equal(t, "user-1", got.Payload["closedBy"])
}

func TestRedisPublisher_ReportsBrokerFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	pub := events.NewRedisPublisher(client, "ledger.events")
	err := pub.Publish(context.Background(), domain.Event{EventID: "evt-1", Type: domain.EventPeriodOpened})
	assert.Error(t, err)
}
