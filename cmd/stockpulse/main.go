package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/stockpulse/internal/aggregation"
	"github.com/aevon-lab/stockpulse/internal/auth"
	"github.com/aevon-lab/stockpulse/internal/cache"
	corecfg "github.com/aevon-lab/stockpulse/internal/core/config"
	"github.com/aevon-lab/stockpulse/internal/core/storage"
	"github.com/aevon-lab/stockpulse/internal/core/storage/memory"
	"github.com/aevon-lab/stockpulse/internal/core/storage/postgres"
	"github.com/aevon-lab/stockpulse/internal/migrations"
	"github.com/aevon-lab/stockpulse/internal/projection"
	"github.com/aevon-lab/stockpulse/internal/ratelimit"
	"github.com/aevon-lab/stockpulse/internal/server"
)

// stockSource is a storage.Source that can also report its health.
type stockSource interface {
	storage.Source
	server.HealthChecker
}

func main() {
	configPath := flag.String("config", "stockpulse.yaml", "Path to configuration file")
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
	slog.Info("Loaded config",
		"source", cfg.Source.Type,
		"cache_ttl", cfg.Cache.TTL,
		"rate_limit", cfg.RateLimit.Limit,
		"rate_window", cfg.RateLimit.Window,
		"auth_mode", cfg.Auth.Mode,
	)

	// 2. Initialize Stock Source
	var source stockSource
	switch cfg.Source.Type {
	case "memory":
		mem, err := memory.LoadSeedFile(cfg.Source.SeedPath)
		if err != nil {
			slog.Error("Failed to load seed data", "path", cfg.Source.SeedPath, "error", err)
			os.Exit(1)
		}
		source = mem
	default:
		db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}

		// 2.1. Run Database Migrations
		if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		pg, err := postgres.NewSource(db, cfg.Database.QueryTimeout)
		if err != nil {
			slog.Error("Failed to prepare stock queries", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		source = pg
	}

	// 3. Initialize Engine (aggregator -> cache -> governor -> pipeline)
	aggregator := aggregation.NewAggregator(source)
	snapshots := cache.New(cfg.Cache.ComputeTimeout)
	governor := ratelimit.NewGovernor(ratelimit.Config{
		Window:     cfg.RateLimit.Window,
		Limit:      cfg.RateLimit.Limit,
		IdleFactor: cfg.RateLimit.IdleFactor,
	})
	projectionSvc := projection.NewService(aggregator, snapshots, governor, cfg.Cache.TTL)

	// 4. Initialize Server
	identity, err := auth.Middleware(auth.Options{
		Mode:    cfg.Auth.Mode,
		Header:  cfg.Auth.Header,
		Clients: cfg.Auth.Clients,
	})
	if err != nil {
		slog.Error("Failed to initialize auth", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg.Server.Addr(), source, cfg.Server.Mode)
	v1 := srv.Engine.Group("/", identity)
	projectionSvc.RegisterRoutes(v1)
	if len(cfg.Auth.Admins) > 0 {
		projectionSvc.RegisterAdminRoutes(v1.Group("/", auth.RequireClients(cfg.Auth.Admins)))
	} else {
		slog.Info("No admin clients configured, cache invalidation routes disabled")
	}

	// 5. Start Background Workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := governor.Run(ctx, cfg.RateLimit.SweepInterval); err != nil {
			slog.Error("Rate limit sweeper stopped with error", "error", err)
		}
	}()

	if cfg.Cache.WarmInterval > 0 {
		warmer := aggregation.NewWarmer(cfg.Cache.WarmInterval, projectionSvc)
		go func() {
			if err := warmer.Start(ctx); err != nil {
				slog.Error("Catalog warmer stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Catalog warmer disabled by config")
	}

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
