package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
)

// periodService owns the accounting calendar.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	uow        portsrepo.UnitOfWork
}

// PeriodServiceOption configures the period service
type PeriodServiceOption func(*periodService)

// WithPeriodPublisher sets the publisher for PeriodOpened events.
func WithPeriodPublisher(p portssvc.EventPublisher) PeriodServiceOption {
	return func(s *periodService) {
		s.Publisher = p
	}
}

// WithPeriodClock overrides the service clock.
func WithPeriodClock(clock ClockFunc) PeriodServiceOption {
	return func(s *periodService) {
		s.Clock = clock
	}
}

// NewPeriodService creates the calendar service.
func NewPeriodService(repo portsrepo.PeriodRepositoryFacade, uow portsrepo.UnitOfWork, options ...PeriodServiceOption) portssvc.PeriodSvcFacade {
	svc := &periodService{periodRepo: repo, uow: uow}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) GetPeriod(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, workplaceID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find period", slog.String("period_id", periodID))
		}
		return nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "get period")
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, workplaceID string, params dto.ListPeriodsParams) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, workplaceID, params.FiscalYear)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods", slog.String("workplace_id", workplaceID))
		return nil, fmt.Errorf("list periods: %w", err)
	}
	if periods == nil {
		return []domain.AccountingPeriod{}, nil
	}
	return periods, nil
}

func (s *periodService) FindPeriodForDate(ctx context.Context, workplaceID string, date time.Time) (*domain.AccountingPeriod, error) {
	candidates, err := s.periodRepo.FindPeriodsContainingDate(ctx, workplaceID, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to find periods for date", slog.String("date", date.Format(time.DateOnly)))
		return nil, fmt.Errorf("find period for date: %w", err)
	}
	period, ok := domain.PreferredPeriod(candidates)
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodePeriodNotFound, "", "no accounting period covers %s", date.Format(time.DateOnly))
	}
	return &period, nil
}

func (s *periodService) OpenPeriod(ctx context.Context, workplaceID string, req dto.OpenPeriodRequest, actorID string) (*domain.AccountingPeriod, error) {
	if !req.PeriodType.IsValid() {
		return nil, fmt.Errorf("%w: unknown period type %q", apperrors.ErrValidation, req.PeriodType)
	}
	start, end := domain.NormalizeDate(req.StartDate), domain.NormalizeDate(req.EndDate)
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	now := s.Now()
	period := domain.AccountingPeriod{
		PeriodID:    uuid.NewString(),
		WorkplaceID: workplaceID,
		Name:        req.Name,
		PeriodType:  req.PeriodType,
		FiscalYear:  req.FiscalYear,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		overlapping, err := repos.PeriodRepo.FindOverlappingPeriods(ctx, workplaceID, period.PeriodType, start, end)
		if err != nil {
			return fmt.Errorf("check overlapping periods: %w", err)
		}
		if len(overlapping) > 0 {
			return apperrors.Conflict(apperrors.CodePeriodOverlap, overlapping[0].PeriodID,
				"%s period %s overlaps existing period %s", period.PeriodType, period.Name, overlapping[0].Name)
		}
		return repos.PeriodRepo.SavePeriod(ctx, period)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to open period",
			slog.String("workplace_id", workplaceID),
			slog.String("period_name", req.Name))
		return nil, passThrough(err, "open period")
	}

	s.Publish(ctx, []domain.Event{newEvent(domain.EventPeriodOpened, workplaceID, period.PeriodID, now, map[string]any{
		"periodType": period.PeriodType,
		"startDate":  start.Format(time.DateOnly),
		"endDate":    end.Format(time.DateOnly),
	})})
	s.LogInfo(ctx, "Accounting period opened",
		slog.String("period_id", period.PeriodID),
		slog.String("workplace_id", workplaceID))
	return &period, nil
}

func (s *periodService) ClosePeriodInTx(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, periodID, actorID string, at time.Time) (*domain.AccountingPeriod, []domain.Event, error) {
	period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
	}
	if err := period.Close(actorID, at); err != nil {
		return nil, nil, err
	}
	if err := repos.PeriodRepo.UpdatePeriod(ctx, *period); err != nil {
		return nil, nil, fmt.Errorf("close period: %w", err)
	}
	return period, []domain.Event{newEvent(domain.EventPeriodClosed, workplaceID, periodID, at, nil)}, nil
}

func (s *periodService) ReopenPeriodInTx(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, periodID, actorID string, at time.Time) (*domain.AccountingPeriod, []domain.Event, error) {
	period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
	}
	if err := period.Reopen(actorID, at); err != nil {
		return nil, nil, err
	}
	if err := repos.PeriodRepo.UpdatePeriod(ctx, *period); err != nil {
		return nil, nil, fmt.Errorf("reopen period: %w", err)
	}
	return period, []domain.Event{newEvent(domain.EventPeriodReopened, workplaceID, periodID, at, nil)}, nil
}
