package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"batani-inventory/internal/repository"
	"batani-inventory/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	reportLimit int
	reportJSON  bool
)

// inventoryctl report dashboard|monthly|customers
var reportCmd = &cobra.Command{
	Use:       "report [dashboard|monthly|customers]",
	Short:     "Print a sales report",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dashboard", "monthly", "customers"},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := bootDB()
		if err != nil {
			return err
		}
		reports := newReportService(db, cfg.Location)
		return runReport(cmd.OutOrStdout(), reports, args[0], reportLimit, reportJSON)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "maximum rows for the customers report (0 = all)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print JSON instead of a table")
}

func newReportService(db *gorm.DB, loc *time.Location) service.ReportService {
	return service.NewReportService(
		repository.NewSaleRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewProductRepo(db),
		time.Now,
		loc,
	)
}

func runReport(out io.Writer, reports service.ReportService, name string, limit int, asJSON bool) error {
	var data interface{}
	var err error
	switch name {
	case "dashboard":
		data, err = reports.DashboardMetrics()
	case "monthly":
		data, err = reports.MonthlyReport()
	case "customers":
		data, err = reports.CustomerSpendingReport(limit)
	default:
		return fmt.Errorf("unknown report %q", name)
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch v := data.(type) {
	case *service.DashboardMetrics:
		fmt.Fprintf(w, "Total revenue\t%s\n", v.TotalRevenue.StringFixed(2))
		fmt.Fprintf(w, "Total commission\t%s\n", v.TotalCommission.StringFixed(2))
		fmt.Fprintf(w, "Revenue this month\t%s\n", v.MonthlyRevenue.StringFixed(2))
		fmt.Fprintf(w, "Sales\t%d\n", v.TotalSalesCount)
		fmt.Fprintf(w, "Items sold\t%d\n", v.TotalItemsSold)
		fmt.Fprintf(w, "Customers\t%d\n", v.TotalCustomers)
		fmt.Fprintf(w, "Products\t%d\n", v.TotalProducts)
		fmt.Fprintf(w, "Low stock\t%d\n", v.LowStockCount)
		fmt.Fprintf(w, "Stock valuation\t%s\n", v.StockValuation.StringFixed(2))
	case []service.MonthlyRevenue:
		fmt.Fprintln(w, "PERIOD\tREVENUE\tCOMMISSION\tSALES")
		for _, m := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.Period, m.Revenue.StringFixed(2), m.Commission.StringFixed(2), m.SalesCount)
		}
	case []service.CustomerSpending:
		fmt.Fprintln(w, "CUSTOMER\tPHONE\tTOTAL SPENT\tPURCHASES")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.FullName, c.PhoneNumber, c.TotalSpent.StringFixed(2), c.PurchaseCount)
		}
	}
	return w.Flush()
}
