package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordCollectionRequest body para POST /api/collections.
// ManualAllocations (factura -> monto) solo aplica cuando
// distribution_method es manual; puede ir vacío y distribuirse después.
type RecordCollectionRequest struct {
	CustomerID         string                     `json:"customer_id" validate:"required,uuid"`
	Amount             decimal.Decimal            `json:"amount"`
	PaymentMethod      string                     `json:"payment_method" validate:"required,oneof=cash bank"`
	DistributionMethod string                     `json:"distribution_method" validate:"required,oneof=auto_oldest auto_newest manual"`
	ManualAllocations  map[string]decimal.Decimal `json:"manual_allocations,omitempty"`
}

// DistributeCollectionRequest body para POST /api/collections/:id/distribute.
type DistributeCollectionRequest struct {
	Allocations map[string]decimal.Decimal `json:"allocations" validate:"required,min=1"`
}

// CollectionAllocationResponse asignación cobro-factura.
type CollectionAllocationResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// CollectionResponse cobro en respuestas.
type CollectionResponse struct {
	ID                 string                         `json:"id"`
	CustomerID         string                         `json:"customer_id"`
	Amount             decimal.Decimal                `json:"amount"`
	PaymentMethod      string                         `json:"payment_method"`
	DistributionMethod string                         `json:"distribution_method"`
	AllocatedAmount    decimal.Decimal                `json:"allocated_amount"`
	UnallocatedAmount  decimal.Decimal                `json:"unallocated_amount"`
	Status             string                         `json:"status"`
	Date               time.Time                      `json:"date"`
	Allocations        []CollectionAllocationResponse `json:"allocations,omitempty"`
}
