package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/internal/api/server"
	"voice-analysis-toolkit/internal/app"
)

const shutdownTimeout = 30 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	Long: `Start the web UI and JSON API on HOST:PORT (default 0.0.0.0:7860).

- The UI is served at /
- The API lives under /api/v1, documented at /swagger/index.html
- Prometheus metrics are at /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load(cmd, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := app.InitializeApplication(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize application", zap.Error(err))
			return err
		}
		defer cleanup()

		logger.Info("Application initialized",
			zap.String("transcription_provider", application.Registry.DefaultProviderName()),
			zap.String("analysis_backend", application.Backend.Name()),
			zap.String("analysis_model", application.Backend.Model()))

		srv, err := server.NewServer(application)
		if err != nil {
			return err
		}

		errCh := srv.Start()
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("Web server failed", zap.Error(err))
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
