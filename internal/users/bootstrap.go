package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
	"github.com/angelmondragon/inventario-backend/pkg/security"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Bootstrapper seeds the first admin account into an empty users table.
type Bootstrapper struct {
	tx          txRunner
	repo        *Repository
	cfg         config.BootstrapConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewBootstrapper wires the seeding step run at startup.
func NewBootstrapper(tx txRunner, repo *Repository, cfg config.BootstrapConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (*Bootstrapper, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Bootstrapper{tx: tx, repo: repo, cfg: cfg, passwordCfg: passwordCfg, logg: logg}, nil
}

// EnsureAdmin creates the configured admin when no user exists and reports whether it did.
// Count and insert share a transaction so concurrent boots cannot both seed.
func (b *Bootstrapper) EnsureAdmin(ctx context.Context) (bool, error) {
	username := strings.TrimSpace(b.cfg.AdminUsername)
	if username == "" || b.cfg.AdminPassword == "" {
		return false, fmt.Errorf("bootstrap admin username and password are required")
	}

	created := false
	err := b.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := b.repo.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return nil
		}

		hash, err := security.HashPassword(b.cfg.AdminPassword, b.passwordCfg)
		if err != nil {
			return fmt.Errorf("hash bootstrap password: %w", err)
		}
		if _, err := repo.Create(ctx, CreateUserDTO{
			Username:     username,
			PasswordHash: hash,
			Role:         enums.RoleAdmin,
		}); err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created && b.logg != nil {
		ctx = b.logg.WithUsername(ctx, username)
		b.logg.Warn(ctx, "seeded bootstrap admin with configured default credentials; rotate the password now")
	}
	return created, nil
}
