package service

import (
	"testing"
	"time"

	"batani-inventory/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardMetrics(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "DB-1", 20, "1000")
	f.product(t, "DB-2", 3, "10")

	f.clock.Set(time.Date(2026, time.September, 30, 23, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255900", 1, "1000", "100")
	f.clock.Set(time.Date(2025, time.October, 2, 8, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255900", 1, "700", "0")

	f.clock.Set(testNow)
	f.sell(t, p.ID, "255901", 1, "1000", "50")
	f.sell(t, p.ID, "255902", 2, "1000", "0")

	m, err := f.reports.DashboardMetrics()
	require.NoError(t, err)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(4700)), m.TotalRevenue.String())
	assert.True(t, m.TotalCommission.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 4, m.TotalSalesCount)
	assert.Equal(t, 5, m.TotalItemsSold)
	assert.EqualValues(t, 3, m.TotalCustomers)
	assert.EqualValues(t, 1, m.LowStockCount)
	assert.EqualValues(t, 2, m.TotalProducts)
	// October of last year does not count toward this month.
	assert.True(t, m.MonthlyRevenue.Equal(decimal.NewFromInt(3000)), m.MonthlyRevenue.String())
	// 15 left of DB-1 at 1000 plus 3 of DB-2 at 10.
	assert.True(t, m.StockValuation.Equal(decimal.NewFromInt(15030)), m.StockValuation.String())
}

func TestDashboardMetricsEmpty(t *testing.T) {
	f := newFixture(t)

	m, err := f.reports.DashboardMetrics()
	require.NoError(t, err)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Zero(t, m.TotalSalesCount)
	assert.Zero(t, m.LowStockCount)
}

func TestLowStockThresholdIsStrict(t *testing.T) {
	f := newFixture(t)
	f.product(t, "LS-1", model.LowStockThreshold, "1")
	f.product(t, "LS-2", model.LowStockThreshold-1, "1")
	f.product(t, "LS-3", 0, "1")

	m, err := f.reports.DashboardMetrics()
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.LowStockCount)
}

func TestMonthlyReportNewestFirst(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "MR-1", 50, "1000")

	f.clock.Set(time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255910", 1, "1000", "100")
	f.clock.Set(time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255911", 2, "1000", "0")
	f.clock.Set(time.Date(2025, time.December, 5, 9, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255910", 1, "400", "0")
	f.clock.Set(time.Date(2026, time.February, 5, 9, 0, 0, 0, time.UTC))
	f.sell(t, p.ID, "255910", 1, "250", "25")

	report, err := f.reports.MonthlyReport()
	require.NoError(t, err)
	require.Len(t, report, 3)

	assert.Equal(t, "2026-10", report[0].Period)
	assert.True(t, report[0].Revenue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, report[0].Commission.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, report[0].SalesCount)
	assert.Equal(t, 2026, report[0].Year)
	assert.Equal(t, 10, report[0].Month)

	assert.Equal(t, "2026-02", report[1].Period)
	assert.Equal(t, "2025-12", report[2].Period)
	assert.True(t, report[2].Revenue.Equal(decimal.NewFromInt(400)))
}

func TestMonthlyReportUsesLocation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TZ-1", 5, "100")
	nairobi := time.FixedZone("EAT", 3*60*60)
	reports := NewReportService(f.sales, f.customers, f.products, f.clock.Now, nairobi)

	// 22:30 UTC on the last day of September is already October in UTC+3.
	f.clock.Set(time.Date(2026, time.September, 30, 22, 30, 0, 0, time.UTC))
	f.sell(t, p.ID, "255920", 1, "100", "0")

	report, err := reports.MonthlyReport()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "2026-10", report[0].Period)
}

func TestCustomerSpendingReport(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CS-1", 50, "100")

	// Explicit creation times give a deterministic tie order.
	base := testNow.Add(-time.Hour)
	for i, c := range []model.Customer{
		{FullName: "Quiet", PhoneNumber: "255930"},
		{FullName: "Big", PhoneNumber: "255931"},
		{FullName: "Tie A", PhoneNumber: "255932"},
		{FullName: "Tie B", PhoneNumber: "255933"},
		{FullName: "Main", PhoneNumber: "255700"},
	} {
		c := c
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.customers.Create(&c))
	}

	f.sell(t, p.ID, "255700", 1, "500", "0")
	f.sell(t, p.ID, "255700", 3, "500", "100")
	f.sell(t, p.ID, "255931", 1, "5000", "0")
	f.sell(t, p.ID, "255932", 1, "300", "0")
	f.sell(t, p.ID, "255933", 1, "300", "0")

	report, err := f.reports.CustomerSpendingReport(0)
	require.NoError(t, err)
	require.Len(t, report, 5)

	names := make([]string, 0, len(report))
	for _, r := range report {
		names = append(names, r.FullName)
	}
	assert.Equal(t, []string{"Big", "Main", "Tie A", "Tie B", "Quiet"}, names)

	assert.True(t, report[1].TotalSpent.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, report[1].PurchaseCount)
	assert.True(t, report[4].TotalSpent.IsZero())
	assert.Zero(t, report[4].PurchaseCount)

	top, err := f.reports.CustomerSpendingReport(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Big", top[0].FullName)
}

func TestSpendingReportScenario(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SC-1", 10, "500")

	f.sell(t, p.ID, "255700", 1, "500", "0")
	f.sell(t, p.ID, "255700", 1, "1500", "0")

	report, err := f.reports.CustomerSpendingReport(0)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "255700", report[0].PhoneNumber)
	assert.True(t, report[0].TotalSpent.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, report[0].PurchaseCount)
}

func TestTwoSalesSameMonthScenario(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SM-1", 10, "1000")

	f.sell(t, p.ID, "255940", 1, "1000", "0")
	f.sell(t, p.ID, "255941", 1, "2000", "0")

	report, err := f.reports.MonthlyReport()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Revenue.Equal(decimal.NewFromInt(3000)))

	m, err := f.reports.DashboardMetrics()
	require.NoError(t, err)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(3000)))
}
