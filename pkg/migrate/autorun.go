package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/inventario-backend/pkg/db"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

// OnStartup applies the embedded schema for the client's dialect before the app serves traffic.
func OnStartup(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "dialect", client.Dialect())
		logg.Info(ctx, "running goose migrations")
	}

	if err := Up(ctx, sqlDB, client.Dialect()); err != nil {
		return err
	}

	if logg != nil {
		version, err := Version(ctx, sqlDB, client.Dialect())
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
		logg.Info(logg.WithField(ctx, "schema_version", version), "goose migrations completed")
	}
	return nil
}
