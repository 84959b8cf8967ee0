package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an append-only ledger line. There is no update or delete path.
type Sale struct {
	BaseModel
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	SoldPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"sold_price"`
	Commission  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"commission"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"` // Snapshot quantity * sold_price
	SaleDate    time.Time       `gorm:"not null;index" json:"sale_date"`

	// Join data
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// NetAmount is the display-only revenue after commission. Reports always use TotalAmount.
func (s *Sale) NetAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.Commission)
}

// AllModels lists every persisted collection in migration order.
func AllModels() []interface{} {
	return []interface{}{&Supplier{}, &Product{}, &ProductImage{}, &Customer{}, &Sale{}}
}
