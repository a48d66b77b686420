package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wondersell/seller-stats/api/openapi"
	"github.com/wondersell/seller-stats/internal/api/handlers"
	"github.com/wondersell/seller-stats/internal/api/middleware"
	"github.com/wondersell/seller-stats/internal/config"
	"github.com/wondersell/seller-stats/internal/engine"
	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	exporter, err := newExporter(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	e := newServer(cfg, log, newReportService(cfg, log), exporter)

	if cfg.Watch.Enabled {
		eng, err := newEngine(cmd.Context(), cfg, log, exporter)
		if err != nil {
			return err
		}
		sched, err := engine.NewScheduler(eng, cfg.Watch.Interval, logger.Component(log, "scheduler"))
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer wires middleware, probes, metrics and the API routes.
func newServer(
	cfg *config.Config,
	log *slog.Logger,
	svc *report.Service,
	exporter *export.Exporter,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	httpLog := logger.Component(log, "http")
	e.Use(middleware.Recovery(httpLog))
	e.Use(middleware.RequestLog(httpLog))
	e.Use(middleware.Metrics())
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))

	health := handlers.NewHealthHandler()
	e.GET("/healthz", health.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("seller-stats", Version))
	handlers.RegisterStatsRoutes(api, handlers.NewStatsHandler(svc, exporter))
	handlers.RegisterCategoryRoutes(api, handlers.NewCategoriesHandler(svc, exporter))
	openapi.RegisterRoutes(e)

	return e
}
