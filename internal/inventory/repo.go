package inventory

import (
	"context"
	"time"

	"github.com/angelmondragon/inventario-backend/internal/repo"
	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists inventory rows.
type Repository struct {
	repo.Base
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.DB(ctx).Create(item).Error
}

// ListByLocation returns every item at the location ordered by product name then id.
func (r *Repository) ListByLocation(ctx context.Context, location string) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.DB(ctx).
		Where("location = ?", location).
		Order("product_name ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// Adjust adds the deltas to every row matching (location, product name) and
// returns how many rows changed.
func (r *Repository) Adjust(ctx context.Context, location, productName string, quantityDelta, sentDelta int, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("location = ? AND product_name = ?", location, productName).
		Updates(map[string]any{
			"quantity":      gorm.Expr("quantity + ?", quantityDelta),
			"sent_quantity": gorm.Expr("sent_quantity + ?", sentDelta),
			"updated_at":    at,
		})
	return res.RowsAffected, res.Error
}

// ProductNames lists the distinct product names stocked at a location.
func (r *Repository) ProductNames(ctx context.Context, location string) ([]string, error) {
	var names []string
	err := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("location = ?", location).
		Distinct("product_name").
		Order("product_name ASC").
		Pluck("product_name", &names).Error
	return names, err
}
