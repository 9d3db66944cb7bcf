package history

import (
	"context"
	"errors"

	"github.com/angelmondragon/inventario-backend/internal/repo"
	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists and reads the audit journal.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Insert appends an entry using the caller's transaction.
func (r *Repository) Insert(ctx context.Context, tx *gorm.DB, entry *models.HistoryEntry) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.WithContext(ctx).Create(entry).Error
}

// ListByLocation returns the location's entries in insertion order.
func (r *Repository) ListByLocation(ctx context.Context, location string) ([]models.HistoryEntry, error) {
	var rows []models.HistoryEntry
	err := r.DB(ctx).
		Where("location = ?", location).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
