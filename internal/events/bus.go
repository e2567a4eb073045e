package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// Handler reacts to one committed domain event.
type Handler func(ctx context.Context, event domain.Event) error

// Bus delivers events synchronously to in-process subscribers.
// A failing or panicking handler is logged and never stops delivery to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]Handler
	all      []Handler
	logger   *slog.Logger
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[domain.EventType][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for the given event types, or for every event when none are given.
func (b *Bus) Subscribe(h Handler, types ...domain.EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(types) == 0 {
		b.all = append(b.all, h)
		return
	}
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], h)
	}
}

func (b *Bus) handlersFor(t domain.EventType) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, 0, len(b.handlers[t])+len(b.all))
	out = append(out, b.handlers[t]...)
	out = append(out, b.all...)
	return out
}

// Publish dispatches every event in order. It always returns nil.
func (b *Bus) Publish(ctx context.Context, events ...domain.Event) error {
	for _, event := range events {
		for _, h := range b.handlersFor(event.Type) {
			if err := b.dispatch(ctx, h, event); err != nil {
				b.logger.Error("Event handler failed",
					slog.String("event_type", string(event.Type)),
					slog.String("event_id", event.EventID),
					slog.String("workplace_id", event.WorkplaceID),
					slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

func (b *Bus) dispatch(ctx context.Context, h Handler, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, event)
}

var _ portssvc.EventPublisher = (*Bus)(nil)
