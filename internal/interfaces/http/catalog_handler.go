package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/usecase"
)

// CatalogHandler maneja productos, clientes y proveedores (protegido).
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateProduct crea un producto.
// POST /api/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.CreateProduct(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProduct obtiene un producto.
// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// ListProducts lista el catálogo.
// GET /api/products
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// CreateCustomer crea un cliente.
// POST /api/customers
func (h *CatalogHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.CreateCustomer(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetCustomer obtiene un cliente con su saldo.
// GET /api/customers/:id
func (h *CatalogHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.uc.GetCustomer(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// ListCustomers lista clientes.
// GET /api/customers
func (h *CatalogHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.uc.ListCustomers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// CreateSupplier crea un proveedor.
// POST /api/suppliers
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	supplier, err := h.uc.CreateSupplier(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// GetSupplier obtiene un proveedor con su saldo.
// GET /api/suppliers/:id
func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	supplier, err := h.uc.GetSupplier(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

// ListSuppliers lista proveedores.
// GET /api/suppliers
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.uc.ListSuppliers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}
