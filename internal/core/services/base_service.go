package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/google/uuid"
)

// ClockFunc supplies the current instant; tests pin it.
type ClockFunc func() time.Time

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher portssvc.EventPublisher
	Clock     ClockFunc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting. Rejections by a ledger rule are expected
// outcomes and go to Warn; everything else is an infrastructure failure.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	if le, ok := apperrors.AsLedgerError(err); ok {
		args = append(args, slog.String("code", string(le.Code)))
		args = append(args, keyvals...)
		logger.Warn(msg, args...)
		return
	}
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now is the service clock in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Publish hands committed events to the publisher. Delivery failures never fail the operation
// that produced the events.
func (s *BaseService) Publish(ctx context.Context, events []domain.Event) {
	if s.Publisher == nil || len(events) == 0 {
		return
	}
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		s.GetLogger(ctx).Error("Failed to publish domain events",
			slog.String("error", err.Error()),
			slog.Int("count", len(events)),
			slog.String("first_event", string(events[0].Type)))
	}
}

func newEvent(t domain.EventType, workplaceID, aggregateID string, at time.Time, payload map[string]any) domain.Event {
	return domain.Event{
		EventID:     uuid.NewString(),
		Type:        t,
		WorkplaceID: workplaceID,
		AggregateID: aggregateID,
		OccurredAt:  at,
		Payload:     payload,
	}
}

// notFoundAs converts a repository ErrNotFound into the coded NotFound error of the entity.
// Other errors are wrapped with op.
func notFoundAs(err error, code apperrors.Code, entityID, op string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(code, entityID, "%s %s not found", entityLabel(code), entityID)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func entityLabel(code apperrors.Code) string {
	switch code {
	case apperrors.CodePeriodNotFound:
		return "accounting period"
	case apperrors.CodeEntryNotFound:
		return "journal entry"
	case apperrors.CodeAccountNotFound:
		return "account"
	case apperrors.CodeTrialBalanceNotFound:
		return "trial balance"
	case apperrors.CodeCloseNotFound:
		return "period close"
	}
	return "entity"
}

// passThrough keeps LedgerErrors untouched and wraps anything else with op.
func passThrough(err error, op string) error {
	if _, ok := apperrors.AsLedgerError(err); ok {
		return err
	}
	if errors.Is(err, apperrors.ErrConcurrencyConflict) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
