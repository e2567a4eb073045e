package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/hibiken/asynq"
)

// ProjectionService is the part of the ledger the worker drives.
type ProjectionService interface {
	Rebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error)
	Verify(ctx context.Context, workplaceID, periodID string) (*dto.VerifyProjectionResponse, error)
}

// OpenPeriodLister lists open periods across workplaces.
type OpenPeriodLister interface {
	ListOpenPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// ProjectionHandlers process projection tasks.
type ProjectionHandlers struct {
	ledger  ProjectionService
	periods OpenPeriodLister
	logger  *slog.Logger
}

// NewProjectionHandlers wires the handlers. A nil logger falls back to slog.Default().
func NewProjectionHandlers(ledger ProjectionService, periods OpenPeriodLister, logger *slog.Logger) *ProjectionHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectionHandlers{ledger: ledger, periods: periods, logger: logger}
}

// Handlers lists the task handlers to register on the worker.
func (h *ProjectionHandlers) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskProjectionRebuild, Handler: h.HandleRebuild},
		{Type: TaskProjectionVerify, Handler: h.HandleVerify},
		{Type: TaskProjectionVerifyOpen, Handler: h.HandleVerifyOpen},
	}
}

// HandleRebuild processes TaskProjectionRebuild tasks.
func (h *ProjectionHandlers) HandleRebuild(ctx context.Context, t *asynq.Task) error {
	var payload ProjectionRebuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.WorkplaceID == "" || payload.PeriodID == "" {
		return asynq.SkipRetry
	}
	logger := h.logger.With(
		slog.String("task", TaskProjectionRebuild),
		slog.String("workplace_id", payload.WorkplaceID),
		slog.String("period_id", payload.PeriodID))
	ctx = middleware.WithLogger(ctx, logger)

	res, err := h.ledger.Rebuild(ctx, payload.WorkplaceID, payload.PeriodID, payload.ActorID)
	if err != nil {
		return retryable(err)
	}
	logger.Info("Projection rebuild task done", slog.Int("rows", res.Rows), slog.Int("lines", res.Lines))
	return nil
}

// HandleVerify processes TaskProjectionVerify tasks. Discrepancies are reported, not repaired.
func (h *ProjectionHandlers) HandleVerify(ctx context.Context, t *asynq.Task) error {
	var payload ProjectionVerifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.WorkplaceID == "" || payload.PeriodID == "" {
		return asynq.SkipRetry
	}
	logger := h.logger.With(
		slog.String("task", TaskProjectionVerify),
		slog.String("workplace_id", payload.WorkplaceID),
		slog.String("period_id", payload.PeriodID))
	ctx = middleware.WithLogger(ctx, logger)

	res, err := h.ledger.Verify(ctx, payload.WorkplaceID, payload.PeriodID)
	if err != nil {
		return retryable(err)
	}
	h.report(logger, res)
	return nil
}

// HandleVerifyOpen verifies every open period. One failing period does not stop the sweep.
func (h *ProjectionHandlers) HandleVerifyOpen(ctx context.Context, _ *asynq.Task) error {
	logger := h.logger.With(slog.String("task", TaskProjectionVerifyOpen))
	periods, err := h.periods.ListOpenPeriods(ctx)
	if err != nil {
		return fmt.Errorf("list open periods: %w", err)
	}

	var errs []error
	inconsistent := 0
	for _, p := range periods {
		periodLogger := logger.With(slog.String("workplace_id", p.WorkplaceID), slog.String("period_id", p.PeriodID))
		res, err := h.ledger.Verify(middleware.WithLogger(ctx, periodLogger), p.WorkplaceID, p.PeriodID)
		if err != nil {
			periodLogger.Error("Projection verification failed", slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("verify %s/%s: %w", p.WorkplaceID, p.PeriodID, err))
			continue
		}
		if !res.Consistent {
			inconsistent++
		}
		h.report(periodLogger, res)
	}

	logger.Info("Open period verification finished",
		slog.Int("periods", len(periods)),
		slog.Int("inconsistent", inconsistent),
		slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func (h *ProjectionHandlers) report(logger *slog.Logger, res *dto.VerifyProjectionResponse) {
	if res.Consistent {
		logger.Info("Projection consistent")
		return
	}
	for _, d := range res.Discrepancies {
		logger.Error("Projection discrepancy",
			slog.String("account_id", d.AccountID),
			slog.String("expected_balance", d.Expected.Balance.String()),
			slog.String("actual_balance", d.Actual.Balance.String()))
	}
}

// retryable keeps transient failures retryable and stops retries for rejections that
// will not change on their own, such as a deleted period.
func retryable(err error) error {
	if errors.Is(err, apperrors.ErrConcurrencyConflict) {
		return err
	}
	if _, ok := apperrors.AsLedgerError(err); ok {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return err
}
