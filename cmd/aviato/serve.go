package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aviato-app/aviato-match/internal/application/command"
	"github.com/aviato-app/aviato-match/internal/application/query"
	httpserver "github.com/aviato-app/aviato-match/internal/interface/http"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Serves the interest picker and the match list over HTTP until SIGINT or SIGTERM.",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides HTTP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// ─────────────────────────────────────────────────────────────────────────
	// 1. Конфигурация и логирование
	// ─────────────────────────────────────────────────────────────────────────
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.HTTP.Port = servePort
	}
	log.Info("starting Aviato match service", logger.String("version", cfg.App.Version))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Хранилища
	// ─────────────────────────────────────────────────────────────────────────
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Прикладной слой
	// ─────────────────────────────────────────────────────────────────────────
	deps := httpserver.Dependencies{
		GetMatchesHandler:      query.NewGetMatchesHandler(a.users, a.selections, nil, log),
		GetAvailabilityHandler: query.NewGetAvailabilityHandler(a.users),
		ListInterestsHandler:   query.NewListInterestsHandler(a.selections),
		Picker:                 command.NewPickerService(a.selections, log),
		Logger:                 log,
		HealthChecker:          a.health,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = httpserver.NewMetrics()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP-сервер
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpConfig, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Ожидание сигнала и graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}
