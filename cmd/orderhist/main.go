package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/RedEchidnaUK/inventree-order-history/internal/core/config"
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/storage/postgres"
	"github.com/RedEchidnaUK/inventree-order-history/internal/history"
	"github.com/RedEchidnaUK/inventree-order-history/internal/history/export"
	"github.com/RedEchidnaUK/inventree-order-history/internal/ingestion"
	"github.com/RedEchidnaUK/inventree-order-history/internal/migrations"
	"github.com/RedEchidnaUK/inventree-order-history/internal/server"
)

func main() {
	configPath := flag.String("config", "orderhist.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Storage (PostgreSQL)
	store, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(store.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Export Registry
	exports := export.NewRegistry()
	if len(cfg.Export.Formats) > 0 {
		if err := exports.Restrict(cfg.Export.Formats); err != nil {
			slog.Error("Invalid export format config", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Export formats registered", "formats", exports.Formats())

	// 4. Initialize Services
	historySvc := history.NewService(store, exports)
	ingestionSvc := ingestion.NewService(store, cfg.Server.MaxBodySizeMB)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
	historySvc.RegisterRoutes(srv.Engine)
	ingestionSvc.RegisterRoutes(srv.Engine)

	// 6. Start Server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
