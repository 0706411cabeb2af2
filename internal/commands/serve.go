package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/observability"
	"github.com/insightdelivered/statement-ledger/internal/store"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	var port int
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			logger := observability.NewLogger(cfg.Log.Level)
			defer logger.Sync()
			metrics := observability.NewMetrics()

			a, err := newAnalyzer(cfg, logger, metrics)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabasePath(), cfg.Storage.DataDir)
			if err != nil {
				return err
			}
			defer st.Close()

			if cfg.Auth.JWTSecret == "" {
				logger.Warn("no auth.jwt_secret configured, generated a per-process secret; tokens will not survive a restart")
			}
			tokens := api.NewTokens([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

			app := api.NewApp(api.NewHandler(a, st, logger, api.WithTokens(tokens)), api.ServerConfig{
				BodyLimitMB: cfg.Server.BodyLimitMB,
				StaticDir:   staticDir,
				Metrics:     metrics,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.Int("port", cfg.Server.Port), zap.String("db", cfg.DatabasePath()))
				errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			logger.Info("server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("server forced shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory of static frontend files to serve at /")

	return cmd
}
