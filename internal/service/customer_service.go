package service

import (
	"context"
	"strings"

	"batani-inventory/internal/lock"
	"batani-inventory/internal/metrics"
	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"
	"batani-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerHistory is a customer profile with their purchases, newest first.
type CustomerHistory struct {
	Customer      *model.Customer `json:"customer"`
	Sales         []model.Sale    `json:"sales"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	PurchaseCount int             `json:"purchaseCount"`
}

type CustomerService interface {
	ListCustomers() ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*model.Customer, error)
	CreateCustomer(ctx context.Context, req *model.Customer) error
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *model.Customer) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID) error
	ResolveOrCreate(ctx context.Context, phone, fullName string) (*model.Customer, bool, error)
	CustomerHistory(id uuid.UUID) (*CustomerHistory, error)
}

type customerService struct {
	db           *gorm.DB
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	resolver     *CustomerResolver
	locker       lock.Locker
}

func NewCustomerService(
	db *gorm.DB,
	cRepo repository.CustomerRepository,
	sRepo repository.SaleRepository,
	resolver *CustomerResolver,
	locker lock.Locker,
) CustomerService {
	return &customerService{
		db:           db,
		customerRepo: cRepo,
		saleRepo:     sRepo,
		resolver:     resolver,
		locker:       locker,
	}
}

func (s *customerService) ListCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req *model.Customer) error {
	trimCustomer(req)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fromValidator(errs)
	}

	release, err := s.locker.Acquire(ctx, lock.CustomerKey(req.PhoneNumber))
	if err != nil {
		return err
	}
	defer release()

	if err := s.customerRepo.Create(req); err != nil {
		return duplicateOr(err, "phone_number", "phone number already belongs to a customer")
	}
	metrics.CustomersCreated.Inc()
	return nil
}

// UpdateCustomer edits the profile. Moving to a phone number owned by someone else is rejected.
func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	trimCustomer(req)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}

	release, err := s.locker.Acquire(ctx, lock.CustomerKey(existing.PhoneNumber), lock.CustomerKey(req.PhoneNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	existing.FullName = req.FullName
	existing.PhoneNumber = req.PhoneNumber
	existing.Email = req.Email
	existing.Address = req.Address
	if err := s.customerRepo.Save(existing); err != nil {
		return nil, duplicateOr(err, "phone_number", "phone number already belongs to a customer")
	}
	return existing, nil
}

// DeleteCustomer removes the profile only. Sales keep the customer id and drop out of
// customer-keyed reports.
func (s *customerService) DeleteCustomer(id uuid.UUID) error {
	if err := s.customerRepo.Delete(id); err != nil {
		return notFoundOr(err, "customer", id)
	}
	return nil
}

func (s *customerService) ResolveOrCreate(ctx context.Context, phone, fullName string) (*model.Customer, bool, error) {
	release, err := s.locker.Acquire(ctx, lock.CustomerKey(strings.TrimSpace(phone)))
	if err != nil {
		return nil, false, err
	}
	defer release()

	customer, created, err := s.resolver.ResolveOrCreate(s.db.WithContext(ctx), phone, fullName)
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.CustomersCreated.Inc()
	}
	return customer, created, nil
}

func (s *customerService) CustomerHistory(id uuid.UUID) (*CustomerHistory, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}

	sales, err := s.saleRepo.FindByCustomerID(id)
	if err != nil {
		return nil, err
	}

	history := &CustomerHistory{
		Customer:      customer,
		Sales:         sales,
		TotalSpent:    decimal.Zero,
		PurchaseCount: len(sales),
	}
	for _, sale := range sales {
		history.TotalSpent = history.TotalSpent.Add(sale.TotalAmount)
	}
	return history, nil
}

func trimCustomer(c *model.Customer) {
	c.FullName = strings.TrimSpace(c.FullName)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.Email = strings.TrimSpace(c.Email)
}
