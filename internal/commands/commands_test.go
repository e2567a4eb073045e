package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/commands"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

const chartYAML = `accounts:
  - code: "1000"
    name: Cash
    classification: asset
  - code: "3100"
    name: Retained earnings
    classification: EQUITY
    isRetainedEarnings: true
`

func TestParseChartOfAccounts(t *testing.T) {
	chart, err := commands.ParseChartOfAccounts(strings.NewReader(chartYAML))
	require.NoError(t, err)
	require.Len(t, chart.Accounts, 2)
	assert.Equal(t, domain.Asset, chart.Accounts[0].Classification)
	assert.True(t, chart.Accounts[1].IsRetainedEarnings)
}

func TestParseChartOfAccounts_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty"},
		{"unknown field", "accounts:\n  - code: \"1\"\n    name: A\n    classification: ASSET\n    colour: red\n", "colour"},
		{"duplicate code", "accounts:\n  - {code: \"1\", name: A, classification: ASSET}\n  - {code: \"1\", name: B, classification: ASSET}\n", "duplicate code"},
		{"bad classification", "accounts:\n  - {code: \"1\", name: A, classification: INCOME}\n", "unknown classification"},
		{"missing name", "accounts:\n  - {code: \"1\", classification: ASSET}\n", "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.ParseChartOfAccounts(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// memoryEnv shares one in-memory runtime across command invocations.
func memoryEnv(t *testing.T) commands.Env {
	t.Helper()
	cfg := config.Default()
	rt, err := bootstrap.Build(context.Background(), cfg, nil, bootstrap.Options{})
	require.NoError(t, err)
	return commands.Env{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		Open: func(context.Context, *config.Config) (*bootstrap.Runtime, error) {
			return rt, nil
		},
	}
}

func run(t *testing.T, env commands.Env, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAccountsImport_IsIdempotent(t *testing.T) {
	env := memoryEnv(t)
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chartYAML), 0o600))

	out, err := run(t, env, "accounts", "import", path, "-w", "wp-1")
	require.NoError(t, err)
	var first dto.ImportAccountsResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Len(t, first.Created, 2)
	assert.Empty(t, first.Skipped)

	out, err = run(t, env, "accounts", "import", path, "-w", "wp-1")
	require.NoError(t, err)
	var second dto.ImportAccountsResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Empty(t, second.Created)
	assert.ElementsMatch(t, []string{"1000", "3100"}, second.Skipped)

	out, err = run(t, env, "accounts", "list", "-w", "wp-1")
	require.NoError(t, err)
	var listed []dto.AccountResponse
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)
}

func TestAccountsImport_RequiresWorkplace(t *testing.T) {
	_, err := run(t, memoryEnv(t), "accounts", "import", "chart.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--workplace")
}

func TestPeriodsAndProjection(t *testing.T) {
	env := memoryEnv(t)

	out, err := run(t, env, "periods", "open", "-w", "wp-1", "--name", "2024-01", "--start", "2024-01-01", "--end", "2024-01-31")
	require.NoError(t, err)
	var period dto.PeriodResponse
	require.NoError(t, json.Unmarshal([]byte(out), &period))
	assert.Equal(t, domain.PeriodMonth, period.PeriodType)
	assert.Equal(t, 2024, period.FiscalYear)
	require.NotEmpty(t, period.PeriodID)

	out, err = run(t, env, "periods", "list", "-w", "wp-1", "--fiscal-year", "2024")
	require.NoError(t, err)
	var periods []dto.PeriodResponse
	require.NoError(t, json.Unmarshal([]byte(out), &periods))
	assert.Len(t, periods, 1)

	out, err = run(t, env, "projection", "verify", "-w", "wp-1", "-p", period.PeriodID)
	require.NoError(t, err)
	var verify dto.VerifyProjectionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &verify))
	assert.True(t, verify.Consistent)

	out, err = run(t, env, "projection", "rebuild", "-w", "wp-1", "-p", period.PeriodID)
	require.NoError(t, err)
	var rebuilt dto.RebuildProjectionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &rebuilt))
	assert.Equal(t, 0, rebuilt.Rows)

	_, err = run(t, env, "projection", "rebuild", "--async", "-w", "wp-1", "-p", period.PeriodID)
	assert.ErrorIs(t, err, services.ErrJobsUnavailable)
}

func TestPeriodsOpen_RejectsBadInput(t *testing.T) {
	env := memoryEnv(t)

	_, err := run(t, env, "periods", "open", "-w", "wp-1", "--name", "x", "--type", "WEEK", "--start", "2024-01-01", "--end", "2024-01-07")
	assert.ErrorContains(t, err, "unknown period type")

	_, err = run(t, env, "periods", "open", "-w", "wp-1", "--name", "x", "--start", "01/01/2024", "--end", "2024-01-31")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	_, err := run(t, memoryEnv(t), "migrate", "up")
	assert.ErrorContains(t, err, "STORAGE=pgsql")
}
