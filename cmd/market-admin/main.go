package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"fyne.io/fyne/v2/app"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/config"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/health"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/metrics"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/middleware"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/telemetry"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/ui"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/pkg/marketapi"
)

const version = "1.0.0"

func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	slog.Info("config loaded",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("api", cfg.API.BaseURL),
	)

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Otel, version)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracing(ctx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Outgoing request chain: spans wrap logging, logging wraps metrics
	transport := telemetry.Transport(middleware.Logging(metrics.Transport(http.DefaultTransport)))

	client, err := marketapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		marketapi.WithTransport(transport),
		marketapi.WithImageTimeout(cfg.API.ImageTimeout),
		marketapi.WithStockPath(cfg.API.StockPath),
	)
	if err != nil {
		slog.Error("❌ Invalid API configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	checker, err := health.NewChecker(cfg, version)
	if err != nil {
		slog.Error("❌ Error creating health checker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsServer := startMetricsServer(cfg.Metrics.Addr)

	a := app.NewWithID("market-admin")

	window := ui.NewWindow(a, cfg, ui.Services{
		Home:     service.NewHomeService(client, checker),
		Products: service.NewProductService(client, cfg.UI.Categories),
		Orders:   service.NewOrderService(client),
		Stock:    service.NewStockService(client),
	})

	a.Lifecycle().SetOnStarted(window.Start)

	slog.Info("🚀 Admin panel is starting...", slog.String("api", cfg.API.BaseURL))

	window.ShowAndRun()

	slog.Warn("🛑 Window closed. Shutting down...")

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("⚠️ Metrics server shutdown encountered an issue", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Metrics server shut down gracefully.")
		}
	}
}

// startMetricsServer serves /metrics on addr. An empty addr disables it.
func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start metrics server", slog.String("error", err.Error()))
		}
	}()

	slog.Info("📊 Metrics listener started", slog.String("address", addr))

	return server
}
