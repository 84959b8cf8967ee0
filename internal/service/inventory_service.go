package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"batani-inventory/internal/lock"
	"batani-inventory/internal/media"
	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"
	"batani-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSearchLimit caps quick product search results.
const DefaultSearchLimit = 5

// ProductInput is the writable part of a product. Images only apply on create;
// afterwards the gallery is managed through the image operations.
type ProductInput struct {
	ProductNumber string          `json:"product_number" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	Images        []string        `json:"images" validate:"max=5,dive,required"`
}

type InventoryService interface {
	ListSuppliers() ([]model.Supplier, error)
	GetSupplier(id uuid.UUID) (*model.Supplier, error)
	CreateSupplier(req *model.Supplier) error
	UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID) error

	ListProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	FindProductBySku(productNumber string) (*model.Product, error)
	SearchProducts(query string, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, req *ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	AddProductImages(ctx context.Context, productID uuid.UUID, urls []string) ([]model.ProductImage, error)
	UploadProductImage(ctx context.Context, productID uuid.UUID, filename, contentType string, data []byte) (*model.ProductImage, error)
	DeleteProductImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type inventoryService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	images       media.ImageStore
	locker       lock.Locker
	wsHub        Broadcaster
}

// NewInventoryService wires catalog management. images may be nil when uploads are not configured.
func NewInventoryService(
	sRepo repository.SupplierRepository,
	pRepo repository.ProductRepository,
	images media.ImageStore,
	locker lock.Locker,
	hub Broadcaster,
) InventoryService {
	if hub == nil {
		hub = NoopBroadcaster{}
	}
	return &inventoryService{
		supplierRepo: sRepo,
		productRepo:  pRepo,
		images:       images,
		locker:       locker,
		wsHub:        hub,
	}
}

// --- Suppliers ---

func (s *inventoryService) ListSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *inventoryService) GetSupplier(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	return supplier, nil
}

func (s *inventoryService) CreateSupplier(req *model.Supplier) error {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fromValidator(errs)
	}
	return s.supplierRepo.Create(req)
}

func (s *inventoryService) UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}

	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	if err := s.supplierRepo.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteSupplier leaves products pointing at the removed supplier; reads render them as Unknown.
func (s *inventoryService) DeleteSupplier(id uuid.UUID) error {
	if err := s.supplierRepo.Delete(id); err != nil {
		return notFoundOr(err, "supplier", id)
	}
	s.wsHub.Publish(Event{
		Type:    EventCatalog,
		Action:  ActionSupplierDeleted,
		Data:    map[string]interface{}{"id": id},
		Message: "supplier removed",
	})
	return nil
}

// --- Products ---

func (s *inventoryService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return product, nil
}

// FindProductBySku matches the product number case-insensitively.
func (s *inventoryService) FindProductBySku(productNumber string) (*model.Product, error) {
	if strings.TrimSpace(productNumber) == "" {
		return nil, invalid("product_number", "product number is required")
	}
	product, err := s.productRepo.FindByProductNumber(productNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: productNumber}
		}
		return nil, err
	}
	return product, nil
}

// SearchProducts matches name or product number substrings. A non-positive limit uses DefaultSearchLimit.
func (s *inventoryService) SearchProducts(query string, limit int) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Product{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.productRepo.Search(query, limit)
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *ProductInput) (*model.Product, error) {
	if err := s.validateProduct(req); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.ProductNumberKey(model.NormalizeProductNumber(req.ProductNumber)))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.productRepo.FindByProductNumber(req.ProductNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != uuid.Nil {
		return nil, invalid("product_number", "product number already exists")
	}

	product := &model.Product{
		ProductNumber: req.ProductNumber,
		Name:          req.Name,
		Description:   req.Description,
		SupplierID:    req.SupplierID,
		StockQuantity: req.StockQuantity,
		Price:         req.Price,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, duplicateOr(err, "product_number", "product number already exists")
	}
	if _, err := s.productRepo.AddImages(product.ID, req.Images); err != nil {
		if delErr := s.productRepo.Delete(product.ID); delErr != nil {
			log.Printf("Warning: failed to roll back product %s: %v", product.ID, delErr)
		}
		return nil, err
	}

	created, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return nil, err
	}
	s.publishProduct(ActionProductCreated, created, fmt.Sprintf("product '%s' created", created.Name))
	return created, nil
}

// UpdateProduct rewrites the editable fields. It shares the product lock with sales,
// so a stock edit never overwrites a concurrent decrement.
func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput) (*model.Product, error) {
	if err := s.validateProduct(req); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.ProductKey(id.String()))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}

	other, err := s.productRepo.FindByProductNumber(req.ProductNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if other != nil && other.ID != existing.ID {
		return nil, invalid("product_number", "product number already exists")
	}

	oldStock := existing.StockQuantity
	existing.ProductNumber = req.ProductNumber
	existing.Name = req.Name
	existing.Description = req.Description
	existing.SupplierID = req.SupplierID
	existing.StockQuantity = req.StockQuantity
	existing.Price = req.Price
	if err := s.productRepo.Save(existing); err != nil {
		return nil, duplicateOr(err, "product_number", "product number already exists")
	}

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.publishProduct(ActionProductUpdated, updated, fmt.Sprintf("product '%s' updated (stock %d -> %d)", updated.Name, oldStock, updated.StockQuantity))
	return updated, nil
}

// DeleteProduct removes the product and its gallery. Past sales keep their product id.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	release, err := s.locker.Acquire(ctx, lock.ProductKey(id.String()))
	if err != nil {
		return err
	}
	defer release()

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "product", id)
	}
	if err := s.productRepo.Delete(id); err != nil {
		return notFoundOr(err, "product", id)
	}
	for _, image := range product.Images {
		s.removeObject(ctx, image.ImageURL)
	}

	s.wsHub.Publish(Event{
		Type:    EventStockUpdate,
		Action:  ActionProductDeleted,
		Data:    map[string]interface{}{"id": id, "name": product.Name},
		Message: fmt.Sprintf("product '%s' deleted", product.Name),
	})
	return nil
}

func (s *inventoryService) validateProduct(req *ProductInput) error {
	if req == nil {
		return invalid("", "product is required")
	}
	req.ProductNumber = strings.TrimSpace(req.ProductNumber)
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fromValidator(errs)
	}
	if err := checkMoney("price", req.Price); err != nil {
		return err
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			return notFoundOr(err, "supplier", *req.SupplierID)
		}
	}
	return nil
}

// --- Images ---

func (s *inventoryService) AddProductImages(ctx context.Context, productID uuid.UUID, urls []string) ([]model.ProductImage, error) {
	cleaned := make([]string, 0, len(urls))
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			cleaned = append(cleaned, url)
		}
	}
	if len(cleaned) == 0 {
		return nil, invalid("images", "at least one image url is required")
	}

	release, err := s.locker.Acquire(ctx, lock.ProductKey(productID.String()))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkImageRoom(productID, len(cleaned)); err != nil {
		return nil, err
	}
	return s.productRepo.AddImages(productID, cleaned)
}

func (s *inventoryService) UploadProductImage(ctx context.Context, productID uuid.UUID, filename, contentType string, data []byte) (*model.ProductImage, error) {
	if s.images == nil {
		return nil, ErrUploadsDisabled
	}
	if len(data) == 0 {
		return nil, invalid("file", "image file is empty")
	}

	key, err := media.ObjectKey(productID, filename, contentType)
	if err != nil {
		return nil, invalid("file", err.Error())
	}

	release, err := s.locker.Acquire(ctx, lock.ProductKey(productID.String()))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkImageRoom(productID, 1); err != nil {
		return nil, err
	}

	url, err := s.images.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	images, err := s.productRepo.AddImages(productID, []string{url})
	if err != nil {
		s.removeObject(ctx, url)
		return nil, err
	}
	return &images[0], nil
}

func (s *inventoryService) DeleteProductImage(ctx context.Context, productID, imageID uuid.UUID) error {
	release, err := s.locker.Acquire(ctx, lock.ProductKey(productID.String()))
	if err != nil {
		return err
	}
	defer release()

	image, err := s.productRepo.DeleteImage(productID, imageID)
	if err != nil {
		return notFoundOr(err, "image", imageID)
	}
	s.removeObject(ctx, image.ImageURL)
	return nil
}

func (s *inventoryService) checkImageRoom(productID uuid.UUID, adding int) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return notFoundOr(err, "product", productID)
	}
	count, err := s.productRepo.CountImages(productID)
	if err != nil {
		return err
	}
	if int(count)+adding > model.MaxImagesPerProduct {
		return invalid("images", fmt.Sprintf("a product holds at most %d images", model.MaxImagesPerProduct))
	}
	return nil
}

// removeObject deletes an uploaded object. External URLs are left alone and failures are only logged.
func (s *inventoryService) removeObject(ctx context.Context, url string) {
	if s.images == nil {
		return
	}
	key, ok := s.images.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Printf("Warning: failed to delete image object %s: %v", key, err)
	}
}

func (s *inventoryService) publishProduct(action string, p *model.Product, message string) {
	s.wsHub.Publish(Event{
		Type:   EventStockUpdate,
		Action: action,
		Data: map[string]interface{}{
			"id":             p.ID,
			"product_number": p.ProductNumber,
			"name":           p.Name,
			"stock":          p.StockQuantity,
			"price":          p.Price,
			"supplier":       p.SupplierName(),
		},
		Message: message,
	})
}
