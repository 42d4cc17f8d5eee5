package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// InventoryGuard validates requested quantities against on-hand stock at
// line-item-write time. It checks raw stock_quantity without reserving it;
// stock decrement on confirmed orders is owned elsewhere.
type InventoryGuard struct{}

// CheckStock loads the product and validates the requested quantity. It runs
// on the caller's transaction handle so the read shares the write's isolation.
func (InventoryGuard) CheckStock(tx *gorm.DB, productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity must be at least 1")
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product"}
		}
		return nil, err
	}

	if !product.IsAvailable {
		return nil, newValidationError("product %q is not available", product.Name)
	}

	if quantity > product.StockQuantity {
		return nil, &StockError{
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	return &product, nil
}
