package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"batani-inventory/internal/lock"
	"batani-inventory/internal/metrics"
	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"
	"batani-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordSaleRequest is one checkout line.
type RecordSaleRequest struct {
	// CustomerName is required only when the phone number is new.
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone" validate:"required"`
	ProductID    uuid.UUID       `json:"productId" validate:"uuid_required"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	SoldPrice    decimal.Decimal `json:"soldPrice" validate:"gte=0"`
	Commission   decimal.Decimal `json:"commission" validate:"gte=0"`
}

type SaleResult struct {
	Sale            *model.Sale     `json:"sale"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	RemainingStock  int             `json:"remainingStock"`
	CustomerCreated bool            `json:"customerCreated"`
}

type SaleService interface {
	RecordSale(ctx context.Context, req *RecordSaleRequest) (*SaleResult, error)
	ListSales() ([]model.Sale, error)
}

type saleService struct {
	db       *gorm.DB
	saleRepo repository.SaleRepository
	ledger   *StockLedger
	resolver *CustomerResolver
	locker   lock.Locker
	hub      Broadcaster
	now      func() time.Time
}

// NewSaleService wires the sale processor. A nil hub disables events and a nil now uses time.Now.
func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	ledger *StockLedger,
	resolver *CustomerResolver,
	locker lock.Locker,
	hub Broadcaster,
	now func() time.Time,
) SaleService {
	if hub == nil {
		hub = NoopBroadcaster{}
	}
	if now == nil {
		now = time.Now
	}
	return &saleService{
		db:       db,
		saleRepo: saleRepo,
		ledger:   ledger,
		resolver: resolver,
		locker:   locker,
		hub:      hub,
		now:      now,
	}
}

// RecordSale validates the line, reserves stock, resolves the customer and appends the
// sale in one transaction. Either all three effects land or none do.
func (s *saleService) RecordSale(ctx context.Context, req *RecordSaleRequest) (*SaleResult, error) {
	result, err := s.recordSale(ctx, req)
	if err != nil {
		metrics.SalesRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	metrics.SalesRecorded.Inc()
	metrics.ItemsSold.Add(float64(result.Sale.Quantity))
	if result.CustomerCreated {
		metrics.CustomersCreated.Inc()
	}

	product := result.Sale.Product
	if result.RemainingStock < model.LowStockThreshold {
		log.Printf("Low stock: %s (%s) has %d left", product.Name, product.ProductNumber, result.RemainingStock)
	}

	s.hub.Publish(Event{
		Type:   EventStockUpdate,
		Action: ActionSaleRecorded,
		Data: map[string]interface{}{
			"sale_id":      result.Sale.ID,
			"product_id":   product.ID,
			"product_name": product.Name,
			"quantity":     result.Sale.Quantity,
			"new_stock":    result.RemainingStock,
			"total_amount": result.TotalAmount,
		},
		Message: fmt.Sprintf("%s bought %d x %s", result.Sale.Customer.FullName, result.Sale.Quantity, product.Name),
	})

	return result, nil
}

func (s *saleService) recordSale(ctx context.Context, req *RecordSaleRequest) (*SaleResult, error) {
	if req == nil {
		return nil, invalid("", "sale request is required")
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	if err := checkMoney("soldPrice", req.SoldPrice); err != nil {
		return nil, err
	}
	if err := checkMoney("commission", req.Commission); err != nil {
		return nil, err
	}

	total := req.SoldPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	if req.Commission.GreaterThan(total) {
		return nil, invalid("commission", fmt.Sprintf("commission %s exceeds sale total %s", req.Commission.StringFixed(2), total.StringFixed(2)))
	}

	release, err := s.locker.Acquire(ctx, lock.ProductKey(req.ProductID.String()), lock.CustomerKey(req.Phone))
	if err != nil {
		return nil, err
	}
	defer release()

	var result *SaleResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.ledger.CheckAndReserve(tx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		customer, created, err := s.resolver.ResolveOrCreate(tx, req.Phone, req.CustomerName)
		if err != nil {
			return err
		}

		saleDate := s.now()
		sale := &model.Sale{
			CustomerID:  customer.ID,
			ProductID:   product.ID,
			Quantity:    req.Quantity,
			SoldPrice:   req.SoldPrice,
			Commission:  req.Commission,
			TotalAmount: total,
			SaleDate:    saleDate,
		}
		sale.CreatedAt = saleDate
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		sale.Customer = customer
		sale.Product = product

		result = &SaleResult{
			Sale:            sale,
			TotalAmount:     sale.TotalAmount,
			NetAmount:       sale.NetAmount(),
			RemainingStock:  product.StockQuantity,
			CustomerCreated: created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *saleService) ListSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return metrics.ReasonValidation
	case errors.Is(err, ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, ErrNotFound):
		return metrics.ReasonNotFound
	default:
		return metrics.ReasonError
	}
}
