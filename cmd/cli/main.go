package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/cmd/cli/commands"
	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/postgres"
	"github.com/jakechorley/staff-rota/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "staff-rota",
		Short: "Staff Rota CLI - Generate and publish staff schedules",
		Long:  `A CLI tool for generating shift schedules from staffing demand, availability and work limits.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ListScheduleCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, then sets up the logger and database
func initApp(ctx context.Context) error {
	var err error
	app.Env = env
	app.Ctx = ctx

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logPath string
	app.Logger, logPath, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("log_file", logPath))
	app.Logger.Debug("Configuration loaded",
		zap.String("default_mode", app.Cfg.DefaultMode),
		zap.Int("max_range_days", app.Cfg.MaxRangeDays),
		zap.Int("closures", len(app.Cfg.Closures)))

	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Logger.Debug("Database connected")

	return nil
}
