package inventory

import (
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/db/models"
)

// ItemDTO is the read shape of one inventory row.
type ItemDTO struct {
	ID           uint      `json:"id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	SentQuantity int       `json:"sent_quantity"`
	Location     string    `json:"location"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AddProductInput creates a new row at a location.
type AddProductInput struct {
	Location    string
	ProductName string
	Quantity    int
	Actor       string
}

// EditInventoryInput adjusts every row of a product at a location.
type EditInventoryInput struct {
	Location      string
	ProductName   string
	QuantityDelta int
	SentDelta     int
	Actor         string
}

func FromModel(m models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:           m.ID,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		SentQuantity: m.SentQuantity,
		Location:     m.Location,
		UpdatedAt:    m.UpdatedAt,
	}
}
