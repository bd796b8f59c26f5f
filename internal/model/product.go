package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. When IsVariable is set the sellable
// prices live on the variations instead of the product itself.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Unit        string          `json:"unit,omitempty" db:"unit"`
	Price       decimal.Decimal `json:"price" db:"price"`
	IsVariable  bool            `json:"isVariable" db:"is_variable"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ProductResponse is a product together with its variations.
type ProductResponse struct {
	Product    *Product           `json:"product"`
	Variations []ProductVariation `json:"variations,omitempty"`
}

// ProductVariation is a sellable variant of a product with its own
// SKU and price.
type ProductVariation struct {
	ID        string          `json:"id" db:"id"`
	ProductID string          `json:"productId" db:"product_id"`
	SKU       string          `json:"sku" db:"sku"`
	Price     decimal.Decimal `json:"price" db:"price"`
}
