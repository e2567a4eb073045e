package bootstrap_test

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
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

func januaryRequest() dto.OpenPeriodRequest {
	return dto.OpenPeriodRequest{
		Name:       "2024-01",
		PeriodType: domain.PeriodMonth,
		FiscalYear: 2024,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuild_MemoryWithoutRedis(t *testing.T) {
	ctx := context.Background()
	rt, err := bootstrap.Build(ctx, config.Default(), nil, bootstrap.Options{})
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	assert.Nil(t, rt.Jobs)
	require.NotNil(t, rt.Services)

	var seen []domain.EventType
	rt.Bus.Subscribe(func(_ context.Context, e domain.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	period, err := rt.Services.Period.OpenPeriod(ctx, "wp-1", januaryRequest(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventPeriodOpened}, seen)

	_, err = rt.Services.Ledger.EnqueueRebuild(ctx, "wp-1", period.PeriodID, "user-1")
	assert.ErrorIs(t, err, services.ErrJobsUnavailable)
}

func TestBuild_RedisPublishesEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.RedisAddr = mr.Addr()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rt, err := bootstrap.Build(ctx, cfg, nil, bootstrap.Options{})
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	require.NotNil(t, rt.Jobs)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sub := client.Subscribe(ctx, cfg.EventsChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	period, err := rt.Services.Period.OpenPeriod(ctx, "wp-1", januaryRequest(), "user-1")
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var event domain.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, domain.EventPeriodOpened, event.Type)
	assert.Equal(t, period.PeriodID, event.AggregateID)
}

func TestBuild_UnknownStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = "sqlite"
	_, err := bootstrap.Build(context.Background(), cfg, nil, bootstrap.Options{})
	assert.Error(t, err)
}

func TestBuild_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := bootstrap.Build(context.Background(), cfg, nil, bootstrap.Options{})
	assert.Error(t, err)
}
