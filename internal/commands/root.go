package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

// Env supplies configuration and the wired runtime to every command.
type Env struct {
	LoadConfig func() (*config.Config, error)
	Open       func(ctx context.Context, cfg *config.Config) (*bootstrap.Runtime, error)
}

// DefaultEnv reads the environment and opens the configured storage.
func DefaultEnv() Env {
	return Env{
		LoadConfig: config.LoadConfig,
		Open: func(ctx context.Context, cfg *config.Config) (*bootstrap.Runtime, error) {
			return bootstrap.Build(ctx, cfg, config.NewLogger(cfg), bootstrap.Options{})
		},
	}
}

var errMissingWorkplace = errors.New("--workplace is required")

type globalFlags struct {
	workplaceID string
	actorID     string
}

// NewRootCommand creates the ledgerctl command tree.
func NewRootCommand(env Env) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the general ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.workplaceID, "workplace", "w", "", "workplace ID")
	rootCmd.PersistentFlags().StringVar(&flags.actorID, "actor", middleware.DefaultActorID, "actor recorded in audit fields")

	rootCmd.AddCommand(
		newMigrateCommand(env),
		newAccountsCommand(env, flags),
		newPeriodsCommand(env, flags),
		newProjectionCommand(env, flags),
	)
	return rootCmd
}

// withRuntime loads config, opens the runtime and runs fn against it.
func withRuntime(cmd *cobra.Command, env Env, fn func(ctx context.Context, rt *bootstrap.Runtime) error) error {
	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := env.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func requireWorkplace(flags *globalFlags) error {
	if flags.workplaceID == "" {
		return errMissingWorkplace
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
