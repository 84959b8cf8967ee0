package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"batani-inventory/internal/dbtest"
	"batani-inventory/internal/lock"
	"batani-inventory/internal/model"
	"batani-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

type recordingHub struct {
	mu     sync.Mutex
	events []Event
}

func (h *recordingHub) Publish(event interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := event.(Event); ok {
		h.events = append(h.events, e)
	}
}

func (h *recordingHub) actions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Action)
	}
	return out
}

type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: make(map[string][]byte)}
}

const memoryImagesBase = "https://cdn.test/"

func (m *memoryImages) Put(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return "", fmt.Errorf("bucket unavailable")
	}
	m.objects[key] = body
	return memoryImagesBase + key, nil
}

func (m *memoryImages) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImages) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, memoryImagesBase) {
		return "", false
	}
	return strings.TrimPrefix(url, memoryImagesBase), true
}

func (m *memoryImages) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type fixture struct {
	db        *gorm.DB
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	sales     repository.SaleRepository

	inventory InventoryService
	customer  CustomerService
	sale      SaleService
	reports   ReportService

	hub    *recordingHub
	images *memoryImages
	clock  *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	f := &fixture{
		db:        db,
		suppliers: repository.NewSupplierRepo(db),
		products:  repository.NewProductRepo(db),
		customers: repository.NewCustomerRepo(db),
		sales:     repository.NewSaleRepo(db),
		hub:       &recordingHub{},
		images:    newMemoryImages(),
		clock:     &testClock{now: testNow},
	}

	locker := lock.NewLocal()
	resolver := NewCustomerResolver(f.customers)
	ledger := NewStockLedger(f.products)

	f.inventory = NewInventoryService(f.suppliers, f.products, f.images, locker, f.hub)
	f.customer = NewCustomerService(db, f.customers, f.sales, resolver, locker)
	f.sale = NewSaleService(db, f.sales, ledger, resolver, locker, f.hub, f.clock.Now)
	f.reports = NewReportService(f.sales, f.customers, f.products, f.clock.Now, time.UTC)
	return f
}

func (f *fixture) product(t *testing.T, number string, stock int, price string) *model.Product {
	t.Helper()
	p, err := f.inventory.CreateProduct(context.Background(), &ProductInput{
		ProductNumber: number,
		Name:          "Product " + number,
		StockQuantity: stock,
		Price:         decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByID(id)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) sell(t *testing.T, productID uuid.UUID, phone string, qty int, price, commission string) *SaleResult {
	t.Helper()
	res, err := f.sale.RecordSale(context.Background(), saleRequest(productID, phone, qty, price, commission))
	require.NoError(t, err)
	return res
}

func saleRequest(productID uuid.UUID, phone string, qty int, price, commission string) *RecordSaleRequest {
	return &RecordSaleRequest{
		CustomerName: "Customer " + phone,
		Phone:        phone,
		ProductID:    productID,
		Quantity:     qty,
		SoldPrice:    decimal.RequireFromString(price),
		Commission:   decimal.RequireFromString(commission),
	}
}

func (f *fixture) countSales(t *testing.T) int {
	t.Helper()
	sales, err := f.sales.FindAll()
	require.NoError(t, err)
	return len(sales)
}
