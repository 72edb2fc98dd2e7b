package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/cmd/cli/commands"
	"github.com/jakechorley/volunteer-profile/internal/config"
	"github.com/jakechorley/volunteer-profile/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-profile/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Volunteer Profile CLI - View and edit your volunteer profile",
		Long:  `A CLI tool for editing a volunteer profile against the volunteer-management backend, and for running that backend.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects profile_config.<env>.yaml and token.<env>.json)")

	rootCmd.AddCommand(commands.ShowProfileCmd(app))
	rootCmd.AddCommand(commands.ListCyclesCmd(app))
	rootCmd.AddCommand(commands.ListCategoriesCmd(app))
	rootCmd.AddCommand(commands.EditProfileCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, credentials and the API client
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Env = env
	app.In = bufio.NewScanner(os.Stdin)
	app.Out = os.Stdout

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("api_base_url", app.Cfg.APIBaseURL))

	// Reference data and the backend commands work without credentials
	token, err := config.LoadTokenWithEnv(env)
	if err != nil {
		app.Logger.Warn("No API token loaded, profile requests will be rejected", zap.Error(err))
		token = nil
	}

	app.Client = apiclient.NewClient(app.Ctx, app.Cfg.APIBaseURL, token, app.Cfg.RequestTimeout, app.Logger)
	app.Logger.Debug("API client initialized", zap.Duration("timeout", app.Cfg.RequestTimeout))

	return nil
}
