package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestBus_DeliversByType(t *testing.T) {
	bus := events.NewBus(quietLogger())
	var posted, everything []string

	bus.Subscribe(func(_ context.Context, e domain.Event) error {
		posted = append(posted, e.EventID)
		return nil
	}, domain.EventJournalEntryPosted)
	bus.Subscribe(func(_ context.Context, e domain.Event) error {
		everything = append(everything, e.EventID)
		return nil
	})

	err := bus.Publish(context.Background(),
		domain.Event{EventID: "e1", Type: domain.EventJournalEntryPosted},
		domain.Event{EventID: "e2", Type: domain.EventPeriodClosed},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, posted)
	assert.Equal(t, []string{"e1", "e2"}, everything)
}

func TestBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	bus := events.NewBus(quietLogger())
	delivered := 0

	bus.Subscribe(func(context.Context, domain.Event) error { panic("boom") }, domain.EventPeriodClosed)
	bus.Subscribe(func(context.Context, domain.Event) error { return errors.New("down") }, domain.EventPeriodClosed)
	bus.Subscribe(func(context.Context, domain.Event) error {
		delivered++
		return nil
	}, domain.EventPeriodClosed)

	err := bus.Publish(context.Background(), domain.Event{EventID: "e1", Type: domain.EventPeriodClosed})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, ...domain.Event) error {
	p.calls++
	return errors.New("unavailable")
}

func TestFanout_AttemptsEveryPublisher(t *testing.T) {
	first := &failingPublisher{}
	bus := events.NewBus(quietLogger())
	got := 0
	bus.Subscribe(func(context.Context, domain.Event) error {
		got++
		return nil
	})

	err := events.Fanout{first, nil, bus}.Publish(context.Background(), domain.Event{EventID: "e1", Type: domain.EventPeriodOpened})
	require.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, got)
}
