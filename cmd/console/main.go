package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/celsoprodesp/Antigravity/internal/app"
	"github.com/celsoprodesp/Antigravity/internal/console"
	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/database"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/logging"
	"github.com/celsoprodesp/Antigravity/internal/repositories/memory"
	"github.com/celsoprodesp/Antigravity/internal/repositories/postgres"
	"github.com/celsoprodesp/Antigravity/internal/services/session"
)

var (
	envFlag   string
	emailFlag string
	demoFlag  bool
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:          "console",
	Short:        "Terminal console of the ERP",
	Long:         `Terminal console of the ERP. Sign in by email, move between screens and edit profile permissions.`,
	SilenceUsage: true,
	RunE:         runConsole,
}

func init() {
	rootCmd.Flags().StringVarP(&envFlag, "env", "e", "dev", "Environment to use (dev, test, prod)")
	rootCmd.Flags().StringVar(&emailFlag, "email", "", "Pre-filled login email (default: CONSOLE_EMAIL)")
	rootCmd.Flags().BoolVar(&demoFlag, "demo", false, "Use in-memory demo data instead of PostgreSQL")
	rootCmd.Flags().StringVar(&logFile, "log-file", "console.log", "File receiving the console logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := config.InitConfig(envFlag); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if demoFlag {
		cfg, err = config.LoadWithoutDatabase()
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// the terminal belongs to the UI
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer out.Close()

	logger, err := logging.NewWithOutput(cfg.Log, out)
	if err != nil {
		return err
	}

	auth := session.NewStaticAuthenticator("")
	deps := app.Dependencies{Authenticator: auth, Logger: logger}
	var transactions []entities.Transaction

	if demoFlag {
		store := memory.NewStore()
		if err := memory.Seed(ctx, store); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		deps.Profiles = store.Profiles()
		deps.Users = store.Users()
		deps.Permissions = store.Permissions()
		transactions = memory.DemoTransactions()
		logger.Info("using in-memory demo data")
	} else {
		pg, err := database.NewPostgres(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()

		deps.Profiles = postgres.NewPostgresProfileRepository(pg.DB)
		deps.Users = postgres.NewPostgresUserRepository(pg.DB)
		deps.Permissions = postgres.NewPostgresPermissionRepository(pg.DB)
		logger.WithFields(logrus.Fields{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Database,
		}).Info("connected to database")
	}

	state := app.New(deps)
	if err := state.Load(ctx); err != nil {
		return err
	}

	email := emailFlag
	if email == "" {
		email = cfg.Console.Email
	}

	model := console.NewModel(console.Options{
		State:        state,
		Auth:         auth,
		Email:        email,
		Transactions: transactions,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}
