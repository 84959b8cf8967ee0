package handler

import (
	"batani-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboard returns overview statistics
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	metrics, err := h.service.DashboardMetrics()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(metrics)
}

func (h *ReportHandler) GetMonthlyReport(c *fiber.Ctx) error {
	report, err := h.service.MonthlyReport()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetCustomerSpending ranks customers by total spent.
// Query params: limit (default all)
func (h *ReportHandler) GetCustomerSpending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return badRequest(c, "Invalid limit")
	}
	report, err := h.service.CustomerSpendingReport(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"limit": limit, "data": report})
}
