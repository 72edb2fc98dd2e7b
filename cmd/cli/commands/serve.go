package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/backend"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the volunteer profile backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			seedPath, _ := cmd.Flags().GetString("seed")
			if addr == "" {
				addr = app.Cfg.Backend.ListenAddr
			}

			store, err := prepareStore(app.Ctx, app.Cfg.Backend, seedPath, app.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.Logger.Info("serve command",
				zap.String("addr", addr),
				zap.Strings("allowed_origins", app.Cfg.Backend.AllowedOrigins))

			server := backend.NewServer(store, app.Logger)
			return backend.ListenAndServe(ctx, addr, server.Handler(app.Cfg.Backend.AllowedOrigins), app.Logger)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to backend.listenAddr)")
	cmd.Flags().String("seed", "", "YAML seed file to load before serving")

	return cmd
}
