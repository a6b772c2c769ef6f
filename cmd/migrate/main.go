package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-booking-scheduler/internal/logging"
	appmigrations "github.com/hackgods/clinic-booking-scheduler/migrations"
)

func main() {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	var dsn string
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the clinic scheduling schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("POSTGRES_DSN"), "Postgres connection string")

	rootCmd.AddCommand(upCmd(&dsn, logger))
	rootCmd.AddCommand(downCmd(&dsn, logger))
	rootCmd.AddCommand(forceCmd(&dsn, logger))
	rootCmd.AddCommand(versionCmd(&dsn, logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}
}

func upCmd(dsn *string, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(*dsn, func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate up: %w", err)
				}
				logger.Info().Msg("migrations complete")
				return nil
			})
		},
	}
}

func downCmd(dsn *string, logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(*dsn, func(m *migrate.Migrate) error {
				var err error
				if steps > 0 {
					err = m.Steps(-steps)
				} else {
					err = m.Down()
				}
				if err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate down: %w", err)
				}
				logger.Info().Int("steps", steps).Msg("rollback complete")
				return nil
			})
		},
	}
	cmd.Flags().Int("steps", 1, "Number of migrations to roll back, 0 for all")
	return cmd
}

func forceCmd(dsn *string, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version: %w", err)
			}
			return withMigrator(*dsn, func(m *migrate.Migrate) error {
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force version: %w", err)
				}
				logger.Info().Int("version", version).Msg("forced schema version")
				return nil
			})
		},
	}
}

func versionCmd(dsn *string, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(*dsn, func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					logger.Info().Msg("no migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("read version: %w", err)
				}
				logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
				return nil
			})
		},
	}
}

func withMigrator(dsn string, fn func(*migrate.Migrate) error) error {
	if dsn == "" {
		return errors.New("POSTGRES_DSN is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("db driver: %w", err)
	}

	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return fmt.Errorf("source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	return fn(m)
}
