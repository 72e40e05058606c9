package repository

import (
	"github.com/shopspring/decimal"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// CollectionRepository define el puerto de persistencia de cobros y sus
// asignaciones. No existe Delete para Collection: solo anulación.
// SumAllocations existe para re-derivar AllocatedAmount de la suma viva
// en vez de confiar en un contador en memoria.
type CollectionRepository interface {
	Create(collection *entity.Collection) error
	Update(collection *entity.Collection) error
	GetByID(id string) (*entity.Collection, error)
	GetForUpdate(id string) (*entity.Collection, error)
	ListByCustomer(customerID string) ([]*entity.Collection, error)

	CreateAllocation(alloc *entity.CollectionAllocation) error
	DeleteAllocation(id string) error
	ListAllocations(collectionID string) ([]*entity.CollectionAllocation, error)
	ListAllocationsByInvoice(invoiceID string) ([]*entity.CollectionAllocation, error)
	SumAllocations(collectionID string) (decimal.Decimal, error)
}
