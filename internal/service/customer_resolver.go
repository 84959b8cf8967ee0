package service

import (
	"errors"
	"strings"

	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"

	"gorm.io/gorm"
)

// CustomerResolver finds a customer by phone number or creates one.
type CustomerResolver struct {
	customers repository.CustomerRepository
}

func NewCustomerResolver(customers repository.CustomerRepository) *CustomerResolver {
	return &CustomerResolver{customers: customers}
}

// ResolveOrCreate returns the customer owning phone. An existing customer is returned
// unchanged and fullName is ignored, so the first-seen name sticks. The bool reports
// whether a customer was created. tx may be nil outside a transaction.
func (r *CustomerResolver) ResolveOrCreate(tx *gorm.DB, phone, fullName string) (*model.Customer, bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, false, invalid("phone", "phone number is required")
	}

	existing, err := r.customers.FindByPhone(tx, phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, false, invalid("customerName", "customer name is required for a new customer")
	}

	// A concurrent writer on another node may win the insert; CreateIfAbsent then hands back its row.
	return r.customers.CreateIfAbsent(tx, &model.Customer{
		FullName:    fullName,
		PhoneNumber: phone,
	})
}
