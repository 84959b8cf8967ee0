package handler

import (
	"io"

	"batani-inventory/internal/model"
	"batani-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// --- Suppliers ---

func (h *InventoryHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *InventoryHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	supplier, err := h.service.GetSupplier(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

func (h *InventoryHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreateSupplier(&supplier); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *InventoryHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateSupplier(id, &supplier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": updated})
}

func (h *InventoryHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid supplier ID")
	}
	if err := h.service.DeleteSupplier(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}

// --- Products ---

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GetProductBySku looks a product up by number, ignoring case.
func (h *InventoryHandler) GetProductBySku(c *fiber.Ctx) error {
	product, err := h.service.FindProductBySku(c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// SearchProducts matches name or number substrings.
// Query params: q, limit (default 5)
func (h *InventoryHandler) SearchProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.DefaultSearchLimit)
	products, err := h.service.SearchProducts(c.Query("q"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.CreateProduct(c.UserContext(), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateProduct(c.UserContext(), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// --- Images ---

type addImagesRequest struct {
	URLs []string `json:"urls"`
}

func (h *InventoryHandler) AddProductImages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req addImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	images, err := h.service.AddProductImages(c.UserContext(), id, req.URLs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Images added", "data": images})
}

// UploadProductImage accepts a multipart "file" field.
func (h *InventoryHandler) UploadProductImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Missing file")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "Unreadable file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "Unreadable file")
	}

	image, err := h.service.UploadProductImage(c.UserContext(), id, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Image uploaded", "data": image})
}

func (h *InventoryHandler) DeleteProductImage(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	imageID, err := parseID(c, "imageId")
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}
	if err := h.service.DeleteProductImage(c.UserContext(), productID, imageID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}
