package repository

import (
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia de clientes.
// AddBalance aplica un delta al saldo corrido en una sola sentencia:
// el caller debe invocarlo en la misma transacción que el evento causante.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	Update(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
	AddBalance(id string, delta decimal.Decimal) error
}

// SupplierRepository define el puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	Update(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List() ([]*entity.Supplier, error)
	AddBalance(id string, delta decimal.Decimal) error
}
