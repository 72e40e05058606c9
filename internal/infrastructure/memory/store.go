// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, para tests y modo demo. No hay rollback: los casos de uso
// validan antes de mutar, así que un error deja el estado intacto.
package memory

import (
	"context"
	"sync"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

// Store guarda todo el estado en mapas protegidos por un solo mutex.
type Store struct {
	mu sync.Mutex

	products  map[string]entity.Product
	customers map[string]entity.Customer
	suppliers map[string]entity.Supplier

	shipments  map[string]entity.Shipment
	batches    map[string]entity.ShipmentBatch
	carryovers map[string]entity.Carryover

	invoices     map[string]entity.Invoice
	invoiceLines map[string][]entity.InvoiceLine // por factura, en orden de creación

	collections map[string]entity.Collection
	allocations map[string]entity.CollectionAllocation

	accounts     map[string]entity.Account
	accountTxns  []entity.AccountTransaction
	expenses     map[string]entity.Expense
	workdays     map[string]entity.Workday
	users        map[string]entity.User

	fifoSeq       int64
	invoiceNumber int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]entity.Product),
		customers:    make(map[string]entity.Customer),
		suppliers:    make(map[string]entity.Supplier),
		shipments:    make(map[string]entity.Shipment),
		batches:      make(map[string]entity.ShipmentBatch),
		carryovers:   make(map[string]entity.Carryover),
		invoices:     make(map[string]entity.Invoice),
		invoiceLines: make(map[string][]entity.InvoiceLine),
		collections:  make(map[string]entity.Collection),
		allocations:  make(map[string]entity.CollectionAllocation),
		accounts:     make(map[string]entity.Account),
		expenses:     make(map[string]entity.Expense),
		workdays:     make(map[string]entity.Workday),
		users:        make(map[string]entity.User),
	}
}

// Repos construye el paquete de repositorios sobre este store.
func (s *Store) Repos() *repository.Tx {
	return &repository.Tx{
		Products:    &productRepo{s},
		Suppliers:   &supplierRepo{s},
		Customers:   &customerRepo{s},
		Shipments:   &shipmentRepo{s},
		Batches:     &batchRepo{s},
		Carryovers:  &carryoverRepo{s},
		Invoices:    &invoiceRepo{s},
		Collections: &collectionRepo{s},
		Accounts:    &accountRepo{s},
		Expenses:    &expenseRepo{s},
		Workdays:    &workdayRepo{s},
	}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{s}
}

// TxRunner ejecuta el closure directamente sobre el store. Sin
// rollback real: los casos de uso validan antes de mutar.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con el paquete de repositorios del store.
func (t *TxRunner) Run(_ context.Context, fn func(r *repository.Tx) error) error {
	return fn(t.store.Repos())
}

var _ repository.TxRunner = (*TxRunner)(nil)
