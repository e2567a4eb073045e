package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
)

func newAccountsCommand(env Env, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountsImportCommand(env, flags), newAccountsListCommand(env, flags))
	return cmd
}

func newAccountsImportCommand(env Env, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <chart.yaml>",
		Short: "Create every account in a chart file that the workplace does not have yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening chart: %w", err)
			}
			defer f.Close()

			chart, err := ParseChartOfAccounts(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				res, err := rt.Services.Account.ImportAccounts(ctx, flags.workplaceID, chart.Accounts, flags.actorID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newAccountsListCommand(env Env, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the workplace's accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWorkplace(flags); err != nil {
				return err
			}
			return withRuntime(cmd, env, func(ctx context.Context, rt *bootstrap.Runtime) error {
				var all []dto.AccountResponse
				params := dto.ListAccountsParams{Limit: 100}
				for {
					page, err := rt.Services.Account.ListAccounts(ctx, flags.workplaceID, params)
					if err != nil {
						return err
					}
					all = append(all, page.Accounts...)
					if page.NextToken == nil {
						break
					}
					params.NextToken = page.NextToken
				}
				return printJSON(cmd.OutOrStdout(), all)
			})
		},
	}
}

// ParseChartOfAccounts decodes a chart file and checks each entry before anything is written.
func ParseChartOfAccounts(r io.Reader) (*dto.ChartOfAccountsFile, error) {
	var chart dto.ChartOfAccountsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&chart); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("chart is empty")
		}
		return nil, err
	}

	seen := make(map[string]bool, len(chart.Accounts))
	var errs []error
	for i := range chart.Accounts {
		acc := &chart.Accounts[i]
		acc.Code = strings.TrimSpace(acc.Code)
		acc.Name = strings.TrimSpace(acc.Name)
		acc.Classification = domain.AccountClassification(strings.ToUpper(strings.TrimSpace(string(acc.Classification))))
		switch {
		case acc.Code == "":
			errs = append(errs, fmt.Errorf("accounts[%d]: code is required", i))
		case seen[acc.Code]:
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate code %q", i, acc.Code))
		}
		seen[acc.Code] = true
		if acc.Name == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: name is required", i))
		}
		if !acc.Classification.IsValid() {
			errs = append(errs, fmt.Errorf("accounts[%d]: unknown classification %q", i, acc.Classification))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &chart, nil
}
