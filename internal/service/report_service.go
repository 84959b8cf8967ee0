package service

import (
	"fmt"
	"sort"
	"time"

	"batani-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardMetrics struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	TotalSalesCount int             `json:"totalSalesCount"`
	TotalItemsSold  int             `json:"totalItemsSold"`
	TotalCustomers  int64           `json:"totalCustomers"`
	LowStockCount   int64           `json:"lowStockCount"`
	MonthlyRevenue  decimal.Decimal `json:"monthlyRevenue"`
	TotalProducts   int64           `json:"totalProducts"`
	StockValuation  decimal.Decimal `json:"stockValuation"`
}

// MonthlyRevenue aggregates one calendar month, keyed "YYYY-MM".
type MonthlyRevenue struct {
	Period     string          `json:"period"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
	SalesCount int             `json:"salesCount"`
}

type CustomerSpending struct {
	CustomerID    uuid.UUID       `json:"customerId"`
	FullName      string          `json:"fullName"`
	PhoneNumber   string          `json:"phoneNumber"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	PurchaseCount int             `json:"purchaseCount"`
}

// ReportService derives read-only aggregates from the ledger. Every figure uses
// TotalAmount, never the net of commission.
type ReportService interface {
	DashboardMetrics() (*DashboardMetrics, error)
	MonthlyReport() ([]MonthlyRevenue, error)
	CustomerSpendingReport(limit int) ([]CustomerSpending, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	now          func() time.Time
	loc          *time.Location
}

// NewReportService buckets months in loc. A nil now uses time.Now and a nil loc uses time.Local.
func NewReportService(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	now func() time.Time,
	loc *time.Location,
) ReportService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		now:          now,
		loc:          loc,
	}
}

func (s *reportService) DashboardMetrics() (*DashboardMetrics, error) {
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.Count()
	if err != nil {
		return nil, err
	}
	stats, err := s.productRepo.GetInventoryStats()
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	m := &DashboardMetrics{
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
		MonthlyRevenue:  decimal.Zero,
		TotalSalesCount: len(sales),
		TotalCustomers:  customers,
		LowStockCount:   stats.LowStockCount,
		TotalProducts:   stats.TotalProducts,
		StockValuation:  stats.TotalValuation,
	}
	for _, sale := range sales {
		m.TotalRevenue = m.TotalRevenue.Add(sale.TotalAmount)
		m.TotalCommission = m.TotalCommission.Add(sale.Commission)
		m.TotalItemsSold += sale.Quantity

		d := sale.SaleDate.In(s.loc)
		if d.Year() == now.Year() && d.Month() == now.Month() {
			m.MonthlyRevenue = m.MonthlyRevenue.Add(sale.TotalAmount)
		}
	}
	return m, nil
}

// MonthlyReport returns one entry per month that has sales, newest first.
func (s *reportService) MonthlyReport() ([]MonthlyRevenue, error) {
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyRevenue)
	for _, sale := range sales {
		d := sale.SaleDate.In(s.loc)
		period := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		b, ok := buckets[period]
		if !ok {
			b = &MonthlyRevenue{
				Period:     period,
				Year:       d.Year(),
				Month:      int(d.Month()),
				Revenue:    decimal.Zero,
				Commission: decimal.Zero,
			}
			buckets[period] = b
		}
		b.Revenue = b.Revenue.Add(sale.TotalAmount)
		b.Commission = b.Commission.Add(sale.Commission)
		b.SalesCount++
	}

	report := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		report = append(report, *b)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Period > report[j].Period })
	return report, nil
}

// CustomerSpendingReport ranks every customer by total spent, highest first. Ties keep
// customer creation order. A positive limit truncates the ranking.
func (s *reportService) CustomerSpendingReport(limit int) ([]CustomerSpending, error) {
	customers, err := s.customerRepo.FindAll()
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].CreatedAt.Before(customers[j].CreatedAt)
	})

	index := make(map[uuid.UUID]int, len(customers))
	report := make([]CustomerSpending, len(customers))
	for i, c := range customers {
		index[c.ID] = i
		report[i] = CustomerSpending{
			CustomerID:  c.ID,
			FullName:    c.FullName,
			PhoneNumber: c.PhoneNumber,
			TotalSpent:  decimal.Zero,
		}
	}
	for _, sale := range sales {
		i, ok := index[sale.CustomerID]
		if !ok {
			continue // customer profile deleted
		}
		report[i].TotalSpent = report[i].TotalSpent.Add(sale.TotalAmount)
		report[i].PurchaseCount++
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].TotalSpent.GreaterThan(report[j].TotalSpent)
	})
	if limit > 0 && limit < len(report) {
		report = report[:limit]
	}
	return report, nil
}
