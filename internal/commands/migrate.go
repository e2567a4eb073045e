package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/pkg/database"
)

func newMigrateCommand(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(
		migrateStep(env, "up", "Apply all pending migrations", database.MigrateUp),
		migrateStep(env, "down", "Roll back every migration", database.MigrateDown),
	)
	return cmd
}

func migrateStep(env Env, use, short string, direction database.MigrateDirection) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage != config.StoragePgsql {
				return fmt.Errorf("migrations need STORAGE=%s, got %q", config.StoragePgsql, cfg.Storage)
			}
			if err := database.RunMigrations(cfg.DatabaseURL, direction, config.NewLogger(cfg)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", use)
			return err
		},
	}
}
