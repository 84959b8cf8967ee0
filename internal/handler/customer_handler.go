package handler

import (
	"batani-inventory/internal/model"
	"batani-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	customer, err := h.service.GetCustomer(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreateCustomer(c.UserContext(), &customer); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateCustomer(c.UserContext(), id, &customer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": updated})
}

// DeleteCustomer removes the profile; recorded sales stay in the ledger.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	if err := h.service.DeleteCustomer(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

type resolveCustomerRequest struct {
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
}

// ResolveCustomer returns the customer owning a phone number, creating it when new.
func (h *CustomerHandler) ResolveCustomer(c *fiber.Ctx) error {
	var req resolveCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, created, err := h.service.ResolveOrCreate(c.UserContext(), req.Phone, req.FullName)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"created": created, "data": customer})
}

func (h *CustomerHandler) GetCustomerHistory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	history, err := h.service.CustomerHistory(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}
