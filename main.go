package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/app/service"
	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/catalog"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/config"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/http"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/telemetry"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "catalog-browser-api"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-browser-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig(os.Args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger := telemetry.NewLogger(os.Stdout, &cfg.OTLP, cfg.Log.Level)

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(ctx, &cfg.OTLP, logger)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(logger)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)

	logger.Info("Starting Catalog Browser API",
		slog.String("catalog_source", cfg.Catalog.Source),
		slog.String("catalog_locale", cfg.Catalog.Locale.String()),
		slog.String("cart_removal_policy", string(cfg.Cart.RemovalPolicy)),
	)

	// Repositories
	catalogRepo := memory.NewCatalogRepository(tracer, logger)
	cartRepo := memory.NewCartRepository(tracer, logger)

	if _, err := meter.Int64ObservableGauge(
		"carts.active",
		metric.WithDescription("Number of open carts"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(cartRepo.Len()))
			return nil
		}),
	); err != nil {
		logger.Warn("Failed to register carts.active gauge", slog.String("error", err.Error()))
	}

	// One-shot catalog load; the API serves an empty catalog until it finishes
	loader := catalog.NewLoader(cfg.Catalog.Source, cfg.Catalog.FetchTimeout, catalogRepo, tracer, meter, logger)
	loader.Start(ctx)

	// Services
	catalogService := service.NewCatalogService(catalogRepo, domain.NewPipeline(cfg.Catalog.Locale), loader, tracer, meter, logger)
	cartService := service.NewCartService(cartRepo, catalogRepo, cfg.Cart.RemovalPolicy, tracer, meter, logger)

	// HTTP
	server := http.NewServer(
		&cfg.Server,
		handler.NewCatalogHandler(catalogService, logger),
		handler.NewCartHandler(cartService, logger),
		logger,
		telem,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
	return nil
}
