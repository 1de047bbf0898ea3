package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"product_id"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ArtisanName string          `json:"artisan_name,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Stock       int             `json:"stock_quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Variants    []Variant       `json:"variants,omitempty"`
}

// Variant belongs to exactly one product. Its stock is authoritative for
// purchases that name it; product stock covers variant-less purchases.
type Variant struct {
	ID            int64           `json:"variant_id"`
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"variant_name"`
	SKU           string          `json:"sku"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Stock         int             `json:"stock_quantity"`
}

// UnitPrice is the resolved price for one unit of this variant.
func (v Variant) UnitPrice(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Add(v.PriceModifier)
}

type Category struct {
	ID          int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProductRequest struct {
	CategoryID  *int64          `json:"category_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	ArtisanName string          `json:"artisan_name"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	Stock       int             `json:"stock_quantity" binding:"gte=0"`
	ImageURL    string          `json:"image_url"`
}

type UpdateProductRequest struct {
	CategoryID  *int64           `json:"category_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ArtisanName *string          `json:"artisan_name"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Stock       *int             `json:"stock_quantity" binding:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url"`
}

type CreateVariantRequest struct {
	Name          string          `json:"variant_name" binding:"required"`
	SKU           string          `json:"sku" binding:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Stock         int             `json:"stock_quantity" binding:"gte=0"`
}

type UpdateVariantRequest struct {
	Name          *string          `json:"variant_name"`
	SKU           *string          `json:"sku"`
	PriceModifier *decimal.Decimal `json:"price_modifier"`
	Stock         *int             `json:"stock_quantity" binding:"omitempty,gte=0"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
