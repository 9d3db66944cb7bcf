package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/inventario-backend/api"
	"github.com/angelmondragon/inventario-backend/api/routes"
	"github.com/angelmondragon/inventario-backend/internal/auth"
	"github.com/angelmondragon/inventario-backend/internal/history"
	"github.com/angelmondragon/inventario-backend/internal/inventory"
	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/db"
	"github.com/angelmondragon/inventario-backend/pkg/instance"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
	"github.com/angelmondragon/inventario-backend/pkg/metrics"
	"github.com/angelmondragon/inventario-backend/pkg/migrate"
	"github.com/angelmondragon/inventario-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.OnStartup(ctx, logg, dbClient); err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	boot, err := users.NewBootstrapper(dbClient, userRepo, cfg.Bootstrap, cfg.Password, logg)
	if err != nil {
		return err
	}
	if _, err := boot.EnsureAdmin(ctx); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}

	registry, err := locations.NewRegistry(cfg.Locations)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := metrics.NewDomainMetrics(reg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		PasswordCfg:    cfg.Password,
	})
	if err != nil {
		return err
	}
	usersService, err := users.NewService(users.ServiceParams{
		Repo:        userRepo,
		Sessions:    sessionManager,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		return err
	}
	historyRepo := history.NewRepository(dbClient.DB())
	historyService, err := history.NewService(historyRepo)
	if err != nil {
		return err
	}
	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:    inventory.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Journal: history.NewJournal(historyRepo, logg),
		Metrics: domainMetrics,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"instance":  instance.ID(),
		"db_driver": dbClient.Dialect(),
		"locations": len(registry.All()),
	})
	logg.Info(ctx, "starting api server")

	server := api.NewServer(addr, routes.NewRouter(routes.Params{
		Config:         cfg,
		Logger:         logg,
		Locations:      registry,
		DB:             dbClient,
		Redis:          redisClient,
		RateLimiter:    redisClient,
		Sessions:       sessionManager,
		Auth:           authService,
		Users:          usersService,
		Inventory:      inventoryService,
		History:        historyService,
		RequestMetrics: metrics.NewHTTPMetrics(reg),
		LoginMetrics:   domainMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}))

	if err := api.Serve(ctx, server, cfg.App, logg); err != nil {
		return err
	}
	logg.Info(ctx, "api server stopped")
	return nil
}
