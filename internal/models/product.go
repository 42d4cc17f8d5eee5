package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	Name string `gorm:"uniqueIndex" json:"name"`
}

// Product carries the current price and on-hand stock. Order items snapshot
// Price at purchase time; later price changes never touch existing orders.
type Product struct {
	BaseModel
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	IsAvailable   bool            `gorm:"default:true" json:"is_available"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid" json:"category_id"`
	Category      *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
