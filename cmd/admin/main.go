package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/db"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
	"github.com/angelmondragon/inventario-backend/pkg/migrate"
	"github.com/angelmondragon/inventario-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()
	root := rootCmd(openUsers)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openUsers connects to the database and Redis the same way the api does.
// Redis is needed so password rotation can drop live sessions.
func openUsers(ctx context.Context) (users.Service, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.OnStartup(ctx, logg, dbClient); err != nil {
		return nil, nil, multierr.Append(err, dbClient.Close())
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, nil, multierr.Append(err, dbClient.Close())
	}
	closeAll := func() error {
		return multierr.Combine(redisClient.Close(), dbClient.Close())
	}

	sessions, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return nil, nil, multierr.Append(err, closeAll())
	}
	svc, err := users.NewService(users.ServiceParams{
		Repo:        users.NewRepository(dbClient.DB()),
		Sessions:    sessions,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		return nil, nil, multierr.Append(err, closeAll())
	}
	return svc, closeAll, nil
}
