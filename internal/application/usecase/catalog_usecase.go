package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// CatalogUseCase CRUD de productos, clientes y proveedores.
// Sin Delete: el catálogo solo crece o se edita, porque los lotes,
// facturas y cobros históricos lo referencian.
type CatalogUseCase struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

// NewCatalogUseCase construye el caso de uso de catálogo.
func NewCatalogUseCase(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
	}
}

// CreateProduct crea un producto del catálogo.
func (uc *CatalogUseCase) CreateProduct(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = "kg"
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct obtiene un producto por ID.
func (uc *CatalogUseCase) GetProduct(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// ListProducts lista el catálogo completo.
func (uc *CatalogUseCase) ListProducts() ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// CreateCustomer crea un cliente con saldo cero.
func (uc *CatalogUseCase) CreateCustomer(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetCustomer obtiene un cliente por ID.
func (uc *CatalogUseCase) GetCustomer(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers lista los clientes con su saldo corrido.
func (uc *CatalogUseCase) ListCustomers() ([]dto.CustomerResponse, error) {
	list, err := uc.customerRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return items, nil
}

// CreateSupplier crea un proveedor con saldo cero.
func (uc *CatalogUseCase) CreateSupplier(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetSupplier obtiene un proveedor por ID.
func (uc *CatalogUseCase) GetSupplier(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return toSupplierResponse(supplier), nil
}

// ListSuppliers lista los proveedores con su saldo corrido.
func (uc *CatalogUseCase) ListSuppliers() ([]dto.SupplierResponse, error) {
	list, err := uc.supplierRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return items, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		CreatedAt: p.CreatedAt,
	}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Balance:   s.Balance,
		CreatedAt: s.CreatedAt,
	}
}
