// Package migratetest opens throwaway SQLite databases carrying the production schema.
package migratetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/db"
	"github.com/angelmondragon/inventario-backend/pkg/migrate"
	"github.com/google/uuid"
)

// NewSQLite returns a migrated in-memory database private to the calling test.
func NewSQLite(t testing.TB) *db.Client {
	t.Helper()
	cfg := config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	ctx := context.Background()
	client, err := db.New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, client.Dialect()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
