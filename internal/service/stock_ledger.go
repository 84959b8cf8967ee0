package service

import (
	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLedger owns every stock decrement. Stock never goes below zero.
type StockLedger struct {
	products repository.ProductRepository
}

func NewStockLedger(products repository.ProductRepository) *StockLedger {
	return &StockLedger{products: products}
}

// CheckAndReserve locks the product row, verifies stock and writes the decrement.
// Callers must run it inside tx so the read and the write cannot interleave with
// another mutation of the same product.
func (l *StockLedger) CheckAndReserve(tx *gorm.DB, productID uuid.UUID, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, invalid("quantity", "quantity must be greater than zero")
	}

	product, err := l.products.LockByID(tx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product", productID)
	}

	if product.StockQuantity < quantity {
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   quantity,
		}
	}

	newStock := product.StockQuantity - quantity
	if err := l.products.UpdateStock(tx, product.ID, product.StockQuantity, newStock); err != nil {
		return nil, err
	}
	product.StockQuantity = newStock
	return product, nil
}
