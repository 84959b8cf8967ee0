package handler

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Inventory *InventoryHandler
	Customer  *CustomerHandler
	Sale      *SaleHandler
	Report    *ReportHandler
}

// Register mounts the REST API on router. Literal paths go before :id routes.
func Register(router fiber.Router, h Handlers) {
	suppliers := router.Group("/suppliers")
	suppliers.Get("/", h.Inventory.GetSuppliers)
	suppliers.Post("/", h.Inventory.CreateSupplier)
	suppliers.Get("/:id", h.Inventory.GetSupplier)
	suppliers.Put("/:id", h.Inventory.UpdateSupplier)
	suppliers.Delete("/:id", h.Inventory.DeleteSupplier)

	products := router.Group("/products")
	products.Get("/", h.Inventory.GetProducts)
	products.Post("/", h.Inventory.CreateProduct)
	products.Get("/search", h.Inventory.SearchProducts)
	products.Get("/sku/:number", h.Inventory.GetProductBySku)
	products.Get("/:id", h.Inventory.GetProduct)
	products.Put("/:id", h.Inventory.UpdateProduct)
	products.Delete("/:id", h.Inventory.DeleteProduct)
	products.Post("/:id/images", h.Inventory.AddProductImages)
	products.Post("/:id/images/upload", h.Inventory.UploadProductImage)
	products.Delete("/:id/images/:imageId", h.Inventory.DeleteProductImage)

	customers := router.Group("/customers")
	customers.Get("/", h.Customer.GetCustomers)
	customers.Post("/", h.Customer.CreateCustomer)
	customers.Post("/resolve", h.Customer.ResolveCustomer)
	customers.Get("/:id", h.Customer.GetCustomer)
	customers.Put("/:id", h.Customer.UpdateCustomer)
	customers.Delete("/:id", h.Customer.DeleteCustomer)
	customers.Get("/:id/history", h.Customer.GetCustomerHistory)

	sales := router.Group("/sales")
	sales.Get("/", h.Sale.GetSales)
	sales.Post("/", h.Sale.CreateSale)

	reports := router.Group("/reports")
	reports.Get("/dashboard", h.Report.GetDashboard)
	reports.Get("/monthly", h.Report.GetMonthlyReport)
	reports.Get("/customers", h.Report.GetCustomerSpending)
}
