package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
)

const dateLayout = "2006-01-02"

func newPeriodsCommand(env Env, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Manage accounting periods",
	}
	cmd.AddCommand(newPeriodsOpenCommand(env, flags), newPeriodsListCommand(env, flags))
	return cmd
}

func newPeriodsOpenCommand(env Env, flags *globalFlags) *cobra.Command {
	var (
		name       string
		periodType string
		fiscalYear int
		start, end string
	)
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new accounting period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			req, err := buildOpenPeriodRequest(name, periodType, fiscalYear, start, end)
			if err != nil {
				return err
			}
			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				p, err := rt.Services.Period.OpenPeriod(ctx, flags.workplaceID, req, flags.actorID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ToPeriodResponse(p))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "period name, e.g. 2024-01")
	cmd.Flags().StringVar(&periodType, "type", string(domain.PeriodMonth), "MONTH, QUARTER or YEAR")
	cmd.Flags().IntVar(&fiscalYear, "fiscal-year", 0, "fiscal year (defaults to the start date's year)")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func buildOpenPeriodRequest(name, periodType string, fiscalYear int, start, end string) (dto.OpenPeriodRequest, error) {
	pt := domain.PeriodType(strings.ToUpper(periodType))
	if !pt.IsValid() {
		return dto.OpenPeriodRequest{}, fmt.Errorf("unknown period type %q", periodType)
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return dto.OpenPeriodRequest{}, fmt.Errorf("invalid --start: %w", err)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return dto.OpenPeriodRequest{}, fmt.Errorf("invalid --end: %w", err)
	}
	if fiscalYear == 0 {
		fiscalYear = startDate.Year()
	}
	return dto.OpenPeriodRequest{
		Name:       name,
		PeriodType: pt,
		FiscalYear: fiscalYear,
		StartDate:  startDate,
		EndDate:    endDate,
	}, nil
}

func newPeriodsListCommand(env Env, flags *globalFlags) *cobra.Command {
	var fiscalYear int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the workplace's periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			var params dto.ListPeriodsParams
			if fiscalYear != 0 {
				params.FiscalYear = &fiscalYear
			}
			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				periods, err := rt.Services.Period.ListPeriods(ctx, flags.workplaceID, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ToListPeriodResponse(periods))
			})
		},
	}
	cmd.Flags().IntVar(&fiscalYear, "fiscal-year", 0, "only periods of this fiscal year")
	return cmd
}
