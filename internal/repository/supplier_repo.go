package repository

import (
	"batani-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	FindAll() ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
	Count() (int64, error)
	Create(supplier *model.Supplier) error
	Save(supplier *model.Supplier) error
	Delete(id uuid.UUID) error
	SeedDefaults() (int, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) FindAll() ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.Order("created_at DESC").Find(&suppliers).Error
	return suppliers, translate(err)
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

func (r *supplierRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Supplier{}).Count(&n).Error
	return n, translate(err)
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return translate(r.db.Create(supplier).Error)
}

// Save replaces the row with the same id, or inserts it when absent.
func (r *supplierRepo) Save(supplier *model.Supplier) error {
	return translate(r.db.Save(supplier).Error)
}

// Delete does not cascade: products keep their now-dangling supplier_id.
func (r *supplierRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedDefaults inserts model.DefaultSuppliers when the table is empty and reports how many were added.
func (r *supplierRepo) SeedDefaults() (int, error) {
	n, err := r.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	suppliers := model.DefaultSuppliers()
	if err := r.db.Create(&suppliers).Error; err != nil {
		return 0, translate(err)
	}
	return len(suppliers), nil
}
