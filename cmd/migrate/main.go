package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/database"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/logging"
)

var (
	envFlag string
	pg      *database.Postgres
	logger  = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool for the ERP access tables",
	Long: `Database migration tool for the ERP access tables.
Manages the profiles, users and permission_records schema using golang-migrate.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupDatabase,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if pg != nil {
			pg.Close()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					logger.Info("no migrations to apply")
					return nil
				}
				return fmt.Errorf("migration up failed: %w", err)
			}
			logger.Info("migration up completed")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback migrations (default: 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps %q", args[0])
			}
			steps = n
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					logger.Info("no migrations to rollback")
					return nil
				}
				return fmt.Errorf("migration down failed: %w", err)
			}
			logger.WithField("steps", steps).Info("migration down completed")
			return nil
		})
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Migrate(uint(version)); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					logger.WithField("version", version).Info("already at version")
					return nil
				}
				return fmt.Errorf("migration goto failed: %w", err)
			}
			logger.WithField("version", version).Info("migration goto completed")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Info("no migrations applied yet")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			entry := logger.WithField("version", version)
			if dirty {
				entry.Warn("current version is dirty, a migration may have failed")
				return nil
			}
			entry.Info("current version")
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Force set migration version (use with caution)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Force(version); err != nil {
				return fmt.Errorf("migration force failed: %w", err)
			}
			logger.WithField("version", version).Warn("migration version forced")
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "dev", "Environment to use (dev, test, prod)")

	rootCmd.AddCommand(upCmd, downCmd, gotoCmd, versionCmd, forceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("migrate failed")
	}
}

func setupDatabase(cmd *cobra.Command, args []string) error {
	if err := config.InitConfig(envFlag); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if l, err := logging.New(cfg.Log); err == nil {
		logger = l
	}
	logger.WithField("env", envFlag).Debug("configuration loaded")

	pg, err = database.NewPostgres(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"user":     cfg.Database.User,
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	}).Info("connected to database")
	return nil
}

func withMigrate(fn func(m *migrate.Migrate) error) error {
	path, err := config.MigrationsPath()
	if err != nil {
		return err
	}
	logger.WithField("path", path).Debug("using migrations")

	m, err := pg.NewMigrate(path)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
