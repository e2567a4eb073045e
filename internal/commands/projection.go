package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
)

// ErrProjectionInconsistent is returned by verify when discrepancies were found.
var ErrProjectionInconsistent = errors.New("projection differs from posted journal lines")

func newProjectionCommand(env Env, flags *globalFlags) *cobra.Command {
	var periodID string
	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Rebuild or verify a period's general ledger balances",
	}
	cmd.PersistentFlags().StringVarP(&periodID, "period", "p", "", "period ID")
	_ = cmd.MarkPersistentFlagRequired("period")

	var async bool
	rebuild := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute the period's balances from posted entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				var (
					res *dto.RebuildProjectionResponse
					err error
				)
				if async {
					res, err = rt.Services.Ledger.EnqueueRebuild(ctx, flags.workplaceID, periodID, flags.actorID)
				} else {
					res, err = rt.Services.Ledger.Rebuild(ctx, flags.workplaceID, periodID, flags.actorID)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	rebuild.Flags().BoolVar(&async, "async", false, "queue the rebuild on the worker instead of running it here")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Compare stored balances with a recomputation without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				res, err := rt.Services.Ledger.Verify(ctx, flags.workplaceID, periodID)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Consistent {
					return ErrProjectionInconsistent
				}
				return nil
			})
		},
	}

	cmd.AddCommand(rebuild, verify)
	return cmd
}
