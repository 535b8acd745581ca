package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/database/postgres"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// Replaced in tests.
var (
	migrateUp     = postgres.RunMigrations
	migrateDown   = postgres.RollbackMigration
	migrateStatus = postgres.MigrationStatus
)

// NewMigrateCmd creates the migrate command group for the run history
// schema. It connects to Postgres directly and skips the other backends.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Manage the run history schema",
		Annotations: map[string]string{annotationNoComponents: "true"},
	}
	cmd.AddCommand(newMigrateUpCmd(), newMigrateDownCmd(), newMigrateStatusCmd())
	return cmd
}

func postgresConfig(cmd *cobra.Command) (*CLIContext, config.PostgresConfig, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, config.PostgresConfig{}, err
	}
	if !cliCtx.Config.Postgres.Enabled {
		return nil, config.PostgresConfig{}, errors.New(errors.ErrCodeServiceUnavailable, "postgres is not enabled")
	}
	return cliCtx, cliCtx.Config.Postgres, nil
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, cfg, err := postgresConfig(cmd)
			if err != nil {
				return err
			}
			if err := migrateUp(cfg, cliCtx.Logger.Named("migrate")); err != nil {
				return err
			}
			return printMigrationStatus(cmd, cfg)
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the latest migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, cfg, err := postgresConfig(cmd)
			if err != nil {
				return err
			}
			if err := migrateDown(cfg, steps); err != nil {
				return err
			}
			cliCtx.Logger.Info("Migrations reverted", logging.Int("steps", steps))
			return printMigrationStatus(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := postgresConfig(cmd)
			if err != nil {
				return err
			}
			return printMigrationStatus(cmd, cfg)
		},
	}
}

type schemaVersion struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s schemaVersion) String() string {
	if s.Dirty {
		return fmt.Sprintf("schema version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("schema version %d", s.Version)
}

func printMigrationStatus(cmd *cobra.Command, cfg config.PostgresConfig) error {
	version, dirty, err := migrateStatus(cfg)
	if err != nil {
		return err
	}
	return PrintResult(cmd, schemaVersion{Version: version, Dirty: dirty})
}

//Personal.AI order the ending
