package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockThreshold is the stock level below which a product counts as low stock.
const LowStockThreshold = 10

// MaxImagesPerProduct caps the gallery of a single product.
const MaxImagesPerProduct = 5

type Product struct {
	BaseModel
	ProductNumber string          `gorm:"type:varchar(100);not null" json:"product_number" validate:"required"`
	ProductKey    string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"` // lower-cased ProductNumber
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string          `gorm:"type:text" json:"description"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	Price         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price" validate:"gte=0"`

	// Relations are resolved at read time and never written through the product row.
	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images" validate:"-"`
}

// NormalizeProductNumber returns the case-insensitive lookup key of a product number.
func NormalizeProductNumber(number string) string {
	return strings.ToLower(strings.TrimSpace(number))
}

func (p *Product) BeforeSave(tx *gorm.DB) (err error) {
	p.ProductNumber = strings.TrimSpace(p.ProductNumber)
	p.ProductKey = NormalizeProductNumber(p.ProductNumber)
	return
}

// SupplierName tolerates a dangling supplier reference.
func (p *Product) SupplierName() string {
	if p.Supplier == nil {
		return UnknownSupplierName
	}
	return p.Supplier.Name
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
}
