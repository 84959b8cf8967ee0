package repository

import (
	"strings"

	"batani-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByPhone(tx *gorm.DB, phone string) (*model.Customer, error)
	Count() (int64, error)
	CreateIfAbsent(tx *gorm.DB, customer *model.Customer) (*model.Customer, bool, error)
	Create(customer *model.Customer) error
	Save(customer *model.Customer) error
	Delete(id uuid.UUID) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("full_name ASC").Find(&customers).Error
	return customers, translate(err)
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// FindByPhone is an exact match on phone_number.
func (r *customerRepo) FindByPhone(tx *gorm.DB, phone string) (*model.Customer, error) {
	var customer model.Customer
	if err := conn(r.db, tx).First(&customer, "phone_number = ?", strings.TrimSpace(phone)).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Customer{}).Count(&n).Error
	return n, translate(err)
}

// CreateIfAbsent inserts the customer unless the phone number is taken, in which case
// the stored customer is returned unchanged. The bool reports whether a row was created.
func (r *customerRepo) CreateIfAbsent(tx *gorm.DB, customer *model.Customer) (*model.Customer, bool, error) {
	db := conn(r.db, tx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}).Create(customer)
	if res.Error != nil {
		return nil, false, translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return customer, true, nil
	}

	existing, err := r.FindByPhone(db, customer.PhoneNumber)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return translate(r.db.Create(customer).Error)
}

func (r *customerRepo) Save(customer *model.Customer) error {
	return translate(r.db.Save(customer).Error)
}

// Delete removes the profile only; sales keep referencing the customer id.
func (r *customerRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Customer{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
