package repository

import (
	"batani-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByCustomerID(customerID uuid.UUID) ([]model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create appends a ledger line. Sales are never updated or deleted.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return translate(conn(r.db, tx).Omit(clause.Associations).Create(sale).Error)
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	// Preload Customer dan Product
	err := r.db.Preload("Customer").Preload("Product").
		Order("sale_date DESC").Order("created_at DESC").
		Find(&sales).Error
	return sales, translate(err)
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Preload("Customer").Preload("Product").First(&sale, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepo) FindByCustomerID(customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").
		Where("customer_id = ?", customerID).
		Order("sale_date DESC").Order("created_at DESC").
		Find(&sales).Error
	return sales, translate(err)
}
